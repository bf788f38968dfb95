package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export <id>...",
	Short: "Decrypt items back to plain files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportDir, "out", "o", ".",
		"Destination directory")
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := unlock(); err != nil {
		return err
	}

	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	results, errs := vaultClient.Vault.FetchPayloadBatch(args)
	for _, id := range args {
		if err, failed := errs[id]; failed {
			printError("%s: %v", id, err)
			continue
		}

		payload := results[id]
		dest := filepath.Join(exportDir, payload.Name)
		if err := os.WriteFile(dest, payload.Data, 0644); err != nil {
			printError("%s: %v", id, err)
			continue
		}
		printSuccess("%s → %s", id, dest)
	}

	return nil
}
