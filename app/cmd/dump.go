package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/lexcodex/symtree/internal/session"
	"github.com/lexcodex/symtree/lsp"
	"github.com/lexcodex/symtree/outline"
	"github.com/lexcodex/symtree/tree"
)

func newDumpCmd() *cobra.Command {
	var flags sourceFlags
	var collapseDepth int
	var flat bool

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print the symbol tree without opening a terminal UI",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := session.New(ctx, globalCfg, flags.options(args))
			if err != nil {
				return err
			}
			defer sess.Close()

			if flat {
				return dumpFlat(ctx, cmd.OutOrStdout(), sess)
			}
			arena, err := sess.Fetch(ctx)
			if err != nil {
				return err
			}
			view := tree.NewView(arena, tree.WithColumns[outline.Symbol](flags.columnCount()))
			if collapseDepth >= 0 {
				arena.Walk(func(ix tree.Index, depth int) bool {
					if depth >= collapseDepth {
						view.Collapse(ix)
					}
					return true
				})
			}
			return writeRows(cmd.OutOrStdout(), view)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&collapseDepth, "collapse-depth", -1, "Collapse every node at this depth or deeper")
	cmd.Flags().BoolVar(&flat, "flat", false, "Print the symbols as flat SymbolInformation JSON")
	return cmd
}

// writeRows prints one line per visible row. Extra columns are aligned with
// a tabwriter and trailing padding is trimmed.
func writeRows(w io.Writer, view *tree.View[outline.Symbol]) error {
	arena := view.Arena()
	var out bytes.Buffer
	tw := tabwriter.NewWriter(&out, 0, 4, 2, ' ', 0)
	for _, row := range view.Rows() {
		cells := []string{strings.Repeat(" ", row.Indent) + row.Glyph + row.Label}
		for col := 1; col < view.Columns(); col++ {
			cells = append(cells, tree.CellText(arena.Payload(row.Index), col))
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, line := range strings.SplitAfter(out.String(), "\n") {
		if line == "" {
			continue
		}
		if _, err := io.WriteString(w, strings.TrimRight(line, " \n")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func dumpFlat(ctx context.Context, w io.Writer, sess *session.Session) error {
	resp, err := sess.Response(ctx)
	if err != nil {
		return err
	}
	symbols := resp.Flat
	if !resp.IsFlat() {
		symbols = outline.Flatten(lsp.PathToURI(sess.File), resp.Nested)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(symbols)
}
