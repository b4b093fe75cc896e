// Package cli wires the tpick commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tacogips/tpick/internal/config"
	"github.com/tacogips/tpick/internal/debug"
	"github.com/tacogips/tpick/internal/prompt"
)

// ExitInterrupted is returned when SIGINT cancels a run.
const ExitInterrupted = 130

// Global flags
var (
	globalConfigFile string
	globalCatalog    string
	globalNoColor    bool
	globalQuiet      bool
	globalDebug      bool
)

// loadedConfig is set by PersistentPreRunE for the running command.
var loadedConfig *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tpick [destination]",
	Short: "Pick a project template from a catalog and write it locally",
	Long: `tpick lists the templates of a catalog, lets you pick one, and writes
its files into the current directory or a new project directory.

Existing files are kept unless --force or --conflict says otherwise.
The catalog defaults to github:nulladmin1/nix-flake-templates and can be
changed with --catalog, TPICK_CATALOG_LOCATION, or the config file.

Examples:
  tpick
  tpick ./my-project
  tpick --new my-project --git --clear-readme
  tpick --template rust --dry-run
  tpick --catalog github:owner/templates@v2 list`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE:              runInit,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	switch {
	case err == nil:
		return
	case errors.Is(err, prompt.ErrNoSelection):
		fmt.Fprintln(os.Stderr, "Cancelled")
		os.Exit(ExitOK)
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "Cancelled")
		os.Exit(ExitInterrupted)
	}
	printError(err)
	os.Exit(exitCode(err))
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&globalConfigFile, FlagConfig, "c", "", DescConfig)
	rootCmd.PersistentFlags().StringVar(&globalCatalog, FlagCatalog, "", DescCatalog)
	rootCmd.PersistentFlags().BoolVar(&globalNoColor, FlagNoColor, false, DescNoColor)
	rootCmd.PersistentFlags().BoolVarP(&globalQuiet, FlagQuiet, "q", false, DescQuiet)
	rootCmd.PersistentFlags().BoolVar(&globalDebug, FlagDebug, false, DescDebug)

	registerInitFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig merges defaults, the config file, TPICK_* variables, and flags,
// then applies the output settings.
func loadConfig(cmd *cobra.Command, args []string) error {
	debug.SetDebug(globalDebug)
	debug.SetNoColor(globalNoColor)

	loader := config.NewLoader()
	bindings := map[string]string{
		"catalog.location":     FlagCatalog,
		"output.quiet":         FlagQuiet,
		"output.debug":         FlagDebug,
		"materialize.conflict": FlagConflict,
	}
	for key, name := range bindings {
		if err := loader.BindFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}

	cfg, err := loader.Load(globalConfigFile)
	if err != nil {
		return err
	}

	globalQuiet = cfg.Output.Quiet
	globalDebug = cfg.Output.Debug
	if globalNoColor {
		cfg.Output.Color = false
	}
	debug.SetDebug(globalDebug)
	debug.SetNoColor(!cfg.Output.Color)
	setColor(cfg.Output.Color)

	loadedConfig = cfg
	return nil
}

// printError prints an error message to stderr
func printError(err error) {
	printErrorMsg(fmt.Sprintf("Error: %v", err))
}
