// Package main provides the sdn-vcard command: vCard conversion between the
// text, xCard, jCard, hCard and QR forms, a document store and an HTTP API.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"

	"github.com/spacedatanetwork/sdn-vcard/internal/api"
	"github.com/spacedatanetwork/sdn-vcard/internal/config"
)

var log = logging.Logger("sdn-vcard")

var rootCmd = &cobra.Command{
	Use:   "sdn-vcard",
	Short: "vCard conversion for the Space Data Network",
	Long: `sdn-vcard converts vCards between plain text (2.1, 3.0, 4.0), xCard,
jCard, hCard and QR codes, keeps rendered documents in a content-addressed
store and serves the conversion over HTTP.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			logging.SetAllLoggers(logging.LevelDebug)
		} else {
			logging.SetAllLoggers(logging.LevelInfo)
		}
	},
	SilenceUsage: true,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	RunE:  runInit,
}

var (
	configPath string
	debug      bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	log.Infof("Initialized sdn-vcard configuration at %s", path)
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// conversionDefaults maps the configuration onto conversion options for the
// given output format.
func conversionDefaults(cfg *config.Config, to string) (api.ConversionOptions, error) {
	opts := api.DefaultConversionOptions()
	version, err := cfg.TextVersion()
	if err != nil {
		return opts, err
	}
	opts.Version = version
	opts.QRSize = cfg.QR.Size
	opts.BaseURL = cfg.HTML.BaseURL
	opts.To = to

	switch strings.ToLower(to) {
	case "json", "jcard":
		opts.Indent = cfg.JSON.Indent
		opts.AddProdID = cfg.JSON.AddProdID
	case "text", "vcf", "vcard", "qr", "png":
		opts.AddProdID = cfg.Text.AddProdID
	default:
		opts.Indent = cfg.XML.Indent
		opts.AddProdID = cfg.XML.AddProdID
	}
	return opts, nil
}

// readInput reads a file, or stdin for "" and "-".
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// writeOutput writes to a file, or stdout for "" and "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		log.Warn(w)
	}
}
