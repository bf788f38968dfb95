package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Delete items from the vault",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := unlock(); err != nil {
			return err
		}

		for _, id := range args {
			if err := vaultClient.Vault.DeleteItem(id); err != nil {
				printError("%s: %v", id, err)
				continue
			}
			printSuccess("Deleted %s", id)
		}
		return nil
	},
}

var relocateCmd = &cobra.Command{
	Use:   "relocate <dir>",
	Short: "Move the vault directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := unlock(); err != nil {
			return err
		}

		result, err := vaultClient.Vault.RelocateVault(args[0])
		if err != nil {
			return err
		}

		printSuccess("Moved %d files to %s", result.FilesMoved, result.Path)
		for _, failure := range result.Failures {
			printError("%s: %v", failure.Name, failure.Err)
		}
		return nil
	},
}

var wipeYes bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all encrypted data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !wipeYes {
			return fmt.Errorf("refusing to wipe without --yes")
		}

		if err := unlock(); err != nil {
			return err
		}

		if err := vaultClient.Vault.WipeAll(); err != nil {
			return err
		}

		printSuccess("Vault wiped")
		return nil
	},
}

var eventsLimit int

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent security events",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := unlock(); err != nil {
			return err
		}

		evs, err := vaultClient.Audit.Recent(eventsLimit)
		if err != nil {
			return err
		}

		for _, ev := range evs {
			fmt.Printf("%s  %-20s  %s  %s\n",
				ev.CreatedAt.Format("2006-01-02 15:04:05"), ev.Kind, ev.ItemID, ev.Detail)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(relocateCmd)
	wipeCmd.Flags().BoolVar(&wipeYes, "yes", false, "Confirm the wipe")
	rootCmd.AddCommand(wipeCmd)
	eventsCmd.Flags().IntVarP(&eventsLimit, "limit", "n", 20, "Events to show")
	rootCmd.AddCommand(eventsCmd)
}
