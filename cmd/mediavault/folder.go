package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folders",
}

var folderCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := unlock(); err != nil {
			return err
		}

		folder, err := vaultClient.Vault.CreateFolder(args[0])
		if err != nil {
			return err
		}

		printSuccess("Created folder %q (%s)", folder.Name, folder.ID)
		return nil
	},
}

var folderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := unlock(); err != nil {
			return err
		}

		folders, err := vaultClient.Vault.ListFolders()
		if err != nil {
			return err
		}

		if len(folders) == 0 {
			fmt.Println("No folders.")
			return nil
		}
		for _, folder := range folders {
			fmt.Printf("%s  %s  %s\n",
				folder.CreatedAt.Format("2006-01-02 15:04"), folder.ID, folder.Name)
		}
		return nil
	},
}

var folderDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a folder (its items move to the root)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := unlock(); err != nil {
			return err
		}

		if err := vaultClient.Vault.DeleteFolder(args[0]); err != nil {
			return err
		}

		printSuccess("Deleted folder %s", args[0])
		return nil
	},
}

var folderAssignCmd = &cobra.Command{
	Use:   "assign <item-id> [folder-id]",
	Short: "Move an item into a folder (omit folder-id for root)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := unlock(); err != nil {
			return err
		}

		folderID := ""
		if len(args) == 2 {
			folderID = args[1]
		}

		if err := vaultClient.Vault.ReassignFolder(args[0], folderID); err != nil {
			return err
		}

		printSuccess("Moved %s", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(folderCmd)
	folderCmd.AddCommand(folderCreateCmd)
	folderCmd.AddCommand(folderListCmd)
	folderCmd.AddCommand(folderDeleteCmd)
	folderCmd.AddCommand(folderAssignCmd)
}
