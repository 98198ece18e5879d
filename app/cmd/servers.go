package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexcodex/symtree/internal/session"
)

// newServersCmd lists the language servers symtree knows how to start.
func newServersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "servers",
		Short: "List known language servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, desc := range session.Registry(globalCfg.Settings).Descriptors() {
				status := "missing"
				if desc.Available() {
					status = "available"
				}
				command := strings.TrimSpace(desc.Command + " " + strings.Join(desc.Args, " "))
				fmt.Fprintf(cmd.OutOrStdout(), "%s · %s · .%s · %s\n",
					desc.Name, command, strings.Join(desc.Extensions, " ."), status)
			}
			return nil
		},
	}
}
