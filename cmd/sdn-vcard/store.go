package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spacedatanetwork/sdn-vcard/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage stored vCard documents",
}

var storePutCmd = &cobra.Command{
	Use:   "put <file>",
	Short: "Store a rendered document",
	Args:  cobra.ExactArgs(1),
	RunE:  runStorePut,
}

var storeGetCmd = &cobra.Command{
	Use:   "get <id|cid>",
	Short: "Print a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreGet,
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runStoreList,
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreDelete,
}

var (
	storePath   string
	storeFormat string
	storeName   string
)

func init() {
	storeCmd.PersistentFlags().StringVar(&storePath, "store-path", "", "override store path (defaults to config.store.path)")
	storePutCmd.Flags().StringVarP(&storeFormat, "format", "f", "", "document format (default from file extension)")
	storePutCmd.Flags().StringVarP(&storeName, "name", "n", "", "document name (default file name)")
	storeGetCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	storeCmd.AddCommand(storePutCmd, storeGetCmd, storeListCmd, storeDeleteCmd)
	rootCmd.AddCommand(storeCmd)
}

func openStore() (*store.Store, error) {
	path := storePath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.Store.Path
	}
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

func runStorePut(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	data, err := readInput(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	name := storeName
	if name == "" {
		name = filepath.Base(args[0])
	}
	rec, err := st.Put(inputFormat(args[0], storeFormat), name, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", rec.ID, rec.CID)
	return nil
}

func runStoreGet(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.Get(args[0])
	if err != nil {
		var cidErr error
		if rec, cidErr = st.GetByCID(args[0]); cidErr != nil {
			return err
		}
	}
	return writeOutput(outPath, rec.Body)
}

func runStoreList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.List()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCID\tFORMAT\tNAME\tCREATED")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.CID, r.Format, r.Name, r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func runStoreDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Delete(args[0])
}
