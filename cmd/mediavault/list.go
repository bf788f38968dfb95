package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listFolder string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List vault items",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFolder, "folder", "f", "",
		"Folder id to list (default: root)")
}

func runList(cmd *cobra.Command, args []string) error {
	if err := unlock(); err != nil {
		return err
	}

	items, err := vaultClient.Vault.ListItems(listFolder)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No items.")
		return nil
	}

	for _, item := range items {
		fmt.Printf("%s  %-5s  %10d  %s  %s\n",
			item.CreatedAt.Format("2006-01-02 15:04"),
			item.Kind, item.ByteSize, item.ID, item.OriginalName)
	}

	return nil
}
