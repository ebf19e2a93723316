package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/droidai/internal/app"
	"github.com/doeshing/droidai/internal/application/dispatch"
)

func newRunCommand(container *app.Container) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run [utterance]",
		Short: "Resolve one utterance and execute it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			utterance := joinArgs(args)

			if dryRun {
				res := container.Engine.Understand(cmd.Context(), utterance)
				renderResolution(cmd, res)
				return nil
			}

			reply, err := container.Dispatch.Handle(cmd.Context(), utterance)
			if errors.Is(err, dispatch.ErrExit) {
				err = nil
			}
			renderReply(cmd, reply)
			return err
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Resolve only; show the command without executing")
	return cmd
}

func newReplCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			snapshot := container.Collector.Collect(ctx)
			if snapshot.CurrentApp != "" {
				fmt.Fprintf(out, "connected, foreground app: %s\n", snapshot.CurrentApp)
			} else {
				fmt.Fprintln(out, "no device detected; commands will fail until one is attached")
			}
			fmt.Fprintln(out, "type a command, :stats, :mappings, or :quit")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				if strings.HasPrefix(line, ":") {
					if quit := handleMeta(cmd, container, line); quit {
						return nil
					}
					continue
				}

				reply, err := container.Dispatch.Handle(ctx, line)
				renderReply(cmd, reply)
				if errors.Is(err, dispatch.ErrExit) {
					return nil
				}
			}
		},
	}
}

// handleMeta services the repl's colon commands. Returns true on :quit.
func handleMeta(cmd *cobra.Command, container *app.Container, line string) bool {
	out := cmd.OutOrStdout()
	switch line {
	case ":quit", ":q", ":exit":
		return true
	case ":stats":
		renderStats(cmd, container.Dispatch.Stats(), container.Engine.IndexSize(), container.Engine.ClassifierAvailable())
	case ":mappings":
		for _, entry := range container.Engine.Learned() {
			fmt.Fprintf(out, "%q -> %s (%s)\n", entry.Phrase, entry.Action, entry.Source)
		}
		for alias, pkg := range container.Shortcuts.Mappings() {
			fmt.Fprintf(out, "%q -> %s\n", alias, pkg)
		}
	default:
		fmt.Fprintf(out, "unknown meta command %s\n", line)
	}
	return false
}

// stdinConfirm builds the destructive-command gate. When confirmation is
// disabled in config it always proceeds.
func stdinConfirm(enabled bool) func(string) bool {
	if !enabled {
		return nil
	}
	return func(prompt string) bool {
		fmt.Printf("%s [y/N] ", prompt)
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
