// Package cmd implements the symtree command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lexcodex/symtree/internal/config"
)

var (
	cfgFile   string
	workspace string

	globalCfg = config.DefaultConfig()
)

// Execute is the entry point for the CLI.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

// NewRootCmd wires the cobra tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "symtree",
		Short:         "Collapsible outline of a file's LSP document symbols",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if workspace != "" {
				cfg.Workspace = workspace
				cfg.ConfigPath, cfg.LogPath, cfg.CachePath = "", "", ""
			}
			if cfgFile != "" {
				cfg.ConfigPath = cfgFile
			}
			if err := cfg.Normalize(); err != nil {
				return err
			}
			settings, err := config.Load(cfg.ConfigPath)
			if err != nil {
				return err
			}
			cfg.Settings = settings
			if err := cfg.Normalize(); err != nil {
				return fmt.Errorf("%s: %w", cfg.ConfigPath, err)
			}
			cfgFile = cfg.ConfigPath
			globalCfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&workspace, "workspace", "", "Workspace directory")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to symtree config file")

	root.AddCommand(
		newOutlineCmd(),
		newDumpCmd(),
		newServersCmd(),
		newCacheCmd(),
		newConfigCmd(),
	)
	return root
}
