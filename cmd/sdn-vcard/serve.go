package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spacedatanetwork/sdn-vcard/internal/api"
	"github.com/spacedatanetwork/sdn-vcard/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion API over HTTP",
	RunE:  runServe,
}

var (
	listenAddr string
	noStore    bool
)

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "override listen address")
	serveCmd.Flags().BoolVar(&noStore, "no-store", false, "run without the document store")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.API.Listen = listenAddr
	}

	var st *store.Store
	if !noStore {
		if st, err = store.Open(cfg.Store.Path); err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()
	}

	defaults, err := conversionDefaults(cfg, "xml")
	if err != nil {
		return err
	}
	handler := api.NewConvertHandler(api.NewConverter(nil), st, defaults, cfg.API.MaxBodySize)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              cfg.API.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("vCard API available at http://%s/api/v1/vcard/convert", cfg.API.Listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	return server.Shutdown(shutdownCtx)
}
