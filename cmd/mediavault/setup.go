package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set up a new PIN and reset the vault",
	Long: `Setup hashes a fresh PIN and regenerates the installation secret.
Anything encrypted under a previous PIN becomes unreadable and is wiped.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	pin, err := promptPIN("New PIN: ")
	if err != nil {
		return err
	}
	confirm, err := promptPIN("Confirm PIN: ")
	if err != nil {
		return err
	}
	if pin != confirm {
		return fmt.Errorf("pins do not match")
	}

	if err := vaultClient.Vault.SetupPin(pin); err != nil {
		return err
	}

	printSuccess("Vault initialized")
	return nil
}
