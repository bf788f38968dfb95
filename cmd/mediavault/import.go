package main

import (
	"github.com/spf13/cobra"
)

var importFolder string

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Encrypt files into the vault",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importFolder, "folder", "f", "",
		"Folder id to import into (default: root)")
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := unlock(); err != nil {
		return err
	}

	result, err := vaultClient.Vault.ImportFiles(args, importFolder)
	if err != nil {
		return err
	}

	for _, item := range result.Imported {
		printSuccess("%s → %s (%s, %d bytes)", item.OriginalName, item.ID, item.Kind, item.ByteSize)
	}
	for _, failure := range result.Failed {
		printError("%s: %v", failure.Name, failure.Err)
	}

	return nil
}
