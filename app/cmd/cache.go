package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexcodex/symtree/persistence"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the symbol snapshot cache",
	}
	cmd.AddCommand(newCacheListCmd(), newCacheClearCmd())
	return cmd
}

func newCacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := persistence.OpenSymbolStore(globalCfg.CachePath)
			if err != nil {
				return err
			}
			defer store.Close()
			infos, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty.")
				return nil
			}
			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%s · %s · %d bytes · %s\n",
					info.Path, info.ContentHash[:min(12, len(info.ContentHash))], info.Size,
					info.FetchedAt.Local().Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := persistence.OpenSymbolStore(globalCfg.CachePath)
			if err != nil {
				return err
			}
			defer store.Close()
			var n int64
			if olderThan > 0 {
				n, err = store.Prune(cmd.Context(), time.Now().Add(-olderThan))
			} else {
				n, err = store.Clear(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d snapshots\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Only remove snapshots fetched longer ago than this")
	return cmd
}
