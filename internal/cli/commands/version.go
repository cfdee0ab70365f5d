package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/leapstack-labs/leaptable/pkg/adapter"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display leaptable version, Go runtime and the registered adapters.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "leaptable v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Dynamic table service built with %s\n", runtime.Version())
			if names := adapter.ListAdapters(); len(names) > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Adapters: %s\n", strings.Join(names, ", "))
			}
		},
	}
}
