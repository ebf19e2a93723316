// Package cli exposes the droidai command tree.
package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/droidai/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. Bare arguments are treated as
// an utterance, so `droidai open chrome` just works.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}
	container.Executor.Confirm = stdinConfirm(container.Config.Preferences.ConfirmDestructive)

	runCmd := newRunCommand(container)

	root := &cobra.Command{
		Use:   "droidai [utterance]",
		Short: "droidai - natural language Android control",
		Long:  "droidai resolves natural language into device commands and runs them over adb.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			runCmd.SetArgs(args)
			return runCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(runCmd)
	root.AddCommand(newReplCommand(container))
	root.AddCommand(newTeachCommand(container))
	root.AddCommand(newForgetCommand(container))
	root.AddCommand(newMappingsCommand(container))
	root.AddCommand(newAppsCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newConfigCommand(container))
	root.AddCommand(newDoctorCommand(container))
	root.AddCommand(newVersionCommand())
	return root, nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
