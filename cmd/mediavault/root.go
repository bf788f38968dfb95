package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mediavault/internal/client"
	"mediavault/internal/config"
	"mediavault/internal/events"
)

var (
	cfgPath string
	verbose bool

	cfg         *config.Config
	logger      *events.Logger
	vaultClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "mediavault",
	Short: "Personal encrypted media vault",
	Long: `Mediavault keeps imported photos and videos encrypted at rest under a
key derived from your PIN. Files are listed, previewed and streamed back
only after the PIN is verified.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.NewLoader(cfgPath).Load()
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log.Level = "debug"
		}

		logger, err = events.NewLogger(&cfg.Log)
		if err != nil {
			return err
		}

		vaultClient, err = client.New(cfg, logger)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if vaultClient != nil {
			return vaultClient.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		"Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
}

// Execute runs the CLI.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		return err
	}
	return nil
}

// promptPIN reads a PIN without echoing it.
func promptPIN(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pin, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read pin: %w", err)
	}
	return string(pin), nil
}

// unlock prompts for the PIN and establishes the session.
func unlock() error {
	pin, err := promptPIN("PIN: ")
	if err != nil {
		return err
	}

	ok, err := vaultClient.Vault.VerifyPin(pin)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("incorrect PIN")
	}
	return nil
}

func printSuccess(format string, args ...interface{}) {
	color.Green("✓ "+format, args...)
}

func printError(format string, args ...interface{}) {
	color.Red("✗ "+format, args...)
}
