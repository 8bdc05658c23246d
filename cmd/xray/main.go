package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dirxray/internal/app"
	"dirxray/internal/config"
	"dirxray/internal/render"
)

// EnvPassphrase supplies the encryption passphrase without a prompt.
const EnvPassphrase = "XRAY_PASSPHRASE"

func main() {
	if err := rootCmd.Execute(); err != nil {
		render.Error(os.Stderr, err)
		os.Exit(1)
	}
}

// readConfig loads the config file named by the defaults.
func readConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults.ConfigPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("no config at %s: run \"xray config init\" first", defaults.ConfigPath)
		}
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults.ConfigPath, nil
}

// newApp reads the config and creates an XrayApp. The caller must defer app.Close().
func newApp(cmd *cobra.Command, operation string) (*app.XrayApp, error) {
	cfg, _, err := readConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewXrayApp(cmd.Context(), cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// readPassphrase returns $XRAY_PASSPHRASE or prompts for one on the terminal.
func readPassphrase(prompt string) (string, error) {
	if p := os.Getenv(EnvPassphrase); p != "" {
		return p, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

var rootCmd = &cobra.Command{
	Use:           "xray",
	Short:         "Snapshot directory trees and compare them",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot [PATH]",
	Short: "Create an xray of a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) > 0 {
			target = args[0]
		}

		a, err := newApp(cmd, "snapshot")
		if err != nil {
			return err
		}
		defer a.Close()

		render.Title(cmd.OutOrStdout(), "CREATE XRAY")
		snap, err := a.CreateSnapshot(target)
		if err != nil {
			return err
		}
		render.Created(cmd.OutOrStdout(), snap)
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List xray files in the save directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "list")
		if err != nil {
			return err
		}
		defer a.Close()

		infos, err := a.ListSnapshots()
		if err != nil {
			return err
		}
		render.Title(cmd.OutOrStdout(), "LIST OF XRAY FILES")
		render.SnapshotList(cmd.OutOrStdout(), infos)
		return nil
	},
}

// compare command
var compareCmd = &cobra.Command{
	Use:   "compare A B",
	Short: "Compare two xrays by name or list number",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "compare")
		if err != nil {
			return err
		}
		defer a.Close()

		var passphrase string
		if a.RequiresPassphrase() {
			if passphrase, err = readPassphrase("Passphrase: "); err != nil {
				return err
			}
		}

		report, err := a.Compare(args[0], args[1], passphrase)
		if err != nil {
			return err
		}
		render.Title(cmd.OutOrStdout(), "COMPARE XRAY FILES")
		render.Report(cmd.OutOrStdout(), report)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent operations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		comparisons, _ := cmd.Flags().GetBool("comparisons")

		a, err := newApp(cmd, "history")
		if err != nil {
			return err
		}
		defer a.Close()

		if comparisons {
			recs, err := a.GetComparisons(limit)
			if err != nil {
				return err
			}
			render.Comparisons(cmd.OutOrStdout(), recs)
			return nil
		}

		ops, err := a.GetHistory(limit)
		if err != nil {
			return err
		}
		render.Operations(cmd.OutOrStdout(), ops)
		return nil
	},
}

// info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Explain how xray works",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		render.Title(cmd.OutOrStdout(), "INFO")
		render.Info(cmd.OutOrStdout())
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults.BaseDir)
		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Fprintf(out, "Save Dir: %s\n", cfg.SaveDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := readConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration from %s:\n\n", path)
		fmt.Fprintf(out, "Save Dir:   %s\n", cfg.SaveDir)
		fmt.Fprintf(out, "Log Dir:    %s\n", cfg.LogDir)
		fmt.Fprintf(out, "Log Level:  %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "Store:      %s\n", cfg.Store.Type)
		if cfg.Store.Type == "s3" {
			fmt.Fprintf(out, "S3 Bucket:  %s/%s\n", cfg.Store.S3Bucket, cfg.Store.S3Prefix)
		}
		fmt.Fprintf(out, "Catalog:    %s %s\n", cfg.Catalog.Type, cfg.Catalog.DataDir)
		fmt.Fprintf(out, "Encryption: %s\n", cfg.Encryption.Type)
		fmt.Fprintf(out, "Order By:   %s\n", cfg.Compare.OrderBy)
		if len(cfg.Filesystem.Ignore) > 0 {
			fmt.Fprintf(out, "Ignore:     %s\n", strings.Join(cfg.Filesystem.Ignore, ", "))
		}
		return nil
	},
}

var configSetDirCmd = &cobra.Command{
	Use:   "set-dir DIR",
	Short: "Set the directory xray files are saved to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := readConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		render.Title(out, "SET NEW DIRECTORY FOR THE XRAY FILES")
		fmt.Fprintf(out, "Current path: %s\n", cfg.SaveDir)

		if err := cfg.SetSaveDir(args[0]); err != nil {
			return err
		}
		if err := config.Save(path, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Fprintf(out, "The path has been set to: %s\n", cfg.SaveDir)
		return nil
	},
}

var configEncryptionCmd = &cobra.Command{
	Use:   "encryption",
	Short: "Manage encryption",
}

var configEncryptionInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the encryption key pair",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "encryption-init")
		if err != nil {
			return err
		}
		defer a.Close()

		passphrase, err := readPassphrase("New passphrase: ")
		if err != nil {
			return err
		}
		if os.Getenv(EnvPassphrase) == "" && term.IsTerminal(int(os.Stdin.Fd())) {
			confirm, err := readPassphrase("Repeat passphrase: ")
			if err != nil {
				return err
			}
			if confirm != passphrase {
				return fmt.Errorf("passphrases do not match")
			}
		}

		if err := a.SetupEncryption(passphrase); err != nil {
			return fmt.Errorf("setting up encryption: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Encryption keys generated.")
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configSetDirCmd)
	configCmd.AddCommand(configEncryptionCmd)
	configEncryptionCmd.AddCommand(configEncryptionInitCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of entries to show")
	historyCmd.Flags().BoolP("comparisons", "c", false, "Show comparison summaries instead of operations")
	rootCmd.AddCommand(infoCmd)
}
