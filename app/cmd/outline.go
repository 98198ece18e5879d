package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexcodex/symtree/app/term"
	"github.com/lexcodex/symtree/app/tui"
	"github.com/lexcodex/symtree/internal/config"
	"github.com/lexcodex/symtree/internal/session"
	"github.com/lexcodex/symtree/internal/watch"
)

type sourceFlags struct {
	language string
	fromJSON string
	noCache  bool
	columns  int
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.language, "lang", "", "Language server key (default: by file extension)")
	cmd.Flags().StringVar(&f.fromJSON, "from-json", "", "Read a recorded documentSymbol response instead of starting a server")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Skip the snapshot cache")
	cmd.Flags().IntVar(&f.columns, "columns", 0, "Columns per row: name, kind, span, detail (default from config)")
}

func (f *sourceFlags) options(args []string) session.Options {
	opts := session.Options{
		FromJSON: f.fromJSON,
		Language: f.language,
		NoCache:  f.noCache,
	}
	if len(args) > 0 {
		opts.File = args[0]
	}
	return opts
}

func (f *sourceFlags) columnCount() int {
	if f.columns > 0 {
		return f.columns
	}
	return globalCfg.Settings.Columns
}

func newOutlineCmd() *cobra.Command {
	var flags sourceFlags
	var backend string
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "outline [file]",
		Short: "Open the interactive symbol tree for a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := session.New(ctx, globalCfg, flags.options(args))
			if err != nil {
				return err
			}
			defer sess.Close()

			opts := tui.Options{
				Columns: flags.columnCount(),
				Theme:   globalCfg.Settings.Theme.TreeTheme(),
				Logger:  sess.Logger,
			}
			if watchFile {
				w, err := watch.New(sess.File,
					watch.WithDebounce(globalCfg.Settings.Watch.Debounce),
					watch.WithOnError(func(err error) { sess.Logger.Printf("watch: %v", err) }),
				)
				if err != nil {
					return err
				}
				if err := w.Start(); err != nil {
					return err
				}
				defer w.Stop()
				opts.Changes = w.Changed()
			}

			if backend == "" {
				backend = globalCfg.Settings.Backend
			}
			switch backend {
			case config.BackendBubbletea:
				return tui.Run(ctx, sess, opts)
			case config.BackendTcell:
				return term.Run(ctx, sess, opts)
			default:
				return fmt.Errorf("unknown backend %q", backend)
			}
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&backend, "backend", "", "Terminal backend: bubbletea or tcell")
	cmd.Flags().BoolVar(&watchFile, "watch", false, "Refetch when the file changes")
	return cmd
}
