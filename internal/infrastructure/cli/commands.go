package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/droidai/internal/app"
	"github.com/doeshing/droidai/internal/domain"
)

const version = "0.3.0"

func newTeachCommand(container *app.Container) *cobra.Command {
	var asAction string

	cmd := &cobra.Command{
		Use:   "teach <phrase> [command...]",
		Short: "Teach a phrase, either as a known action or via an example command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phrase := args[0]

			if asAction != "" {
				action := domain.Action(strings.ToUpper(asAction))
				if err := container.Engine.TeachAction(phrase, action, domain.Slots{}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "learned %q -> %s\n", phrase, action)
				return nil
			}

			if len(args) < 2 {
				return fmt.Errorf("give an example command, or use --action")
			}
			example := joinArgs(args[1:])
			target := container.Engine.Understand(cmd.Context(), example)
			if target == nil {
				return fmt.Errorf("%q is not understood, cannot teach from it", example)
			}
			if err := container.Engine.TeachAction(phrase, target.Command.Action, domain.Slots{}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "learned %q -> %s\n", phrase, target.Command.Action)
			return nil
		},
	}

	cmd.Flags().StringVar(&asAction, "action", "", "Teach directly to an action label (e.g. VOLUME_UP)")
	return cmd
}

func newForgetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <phrase>",
		Short: "Forget a learned phrase or app shortcut",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phrase := joinArgs(args)
			forgotten := container.Engine.ForgetAction(phrase)
			if container.Shortcuts.Forget(phrase) {
				forgotten = true
			}
			if !forgotten {
				return fmt.Errorf("nothing learned for %q", phrase)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "forgot %q\n", phrase)
			return nil
		},
	}
}

func newMappingsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "mappings",
		Short: "List learned phrases and app shortcuts",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			learned := container.Engine.Learned()
			shortcuts := container.Shortcuts.Mappings()
			if len(learned) == 0 && len(shortcuts) == 0 {
				fmt.Fprintln(out, "nothing learned yet")
				return nil
			}

			for _, entry := range learned {
				fmt.Fprintf(out, "%-30q %s  [%s]\n", entry.Phrase, entry.Action, entry.Source)
			}
			aliases := make([]string, 0, len(shortcuts))
			for alias := range shortcuts {
				aliases = append(aliases, alias)
			}
			sort.Strings(aliases)
			for _, alias := range aliases {
				fmt.Fprintf(out, "%-30q %s  [shortcut]\n", alias, shortcuts[alias])
			}
			return nil
		},
	}
}

func newAppsCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "App index operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the installed-app index from the device",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := container.Catalog.Reindex(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d apps\n", n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "find <name>",
		Short: "Show ranked app matches for a name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidates, err := container.Catalog.Candidates(cmd.Context(), joinArgs(args), 10)
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}
			for _, c := range candidates {
				fmt.Fprintf(cmd.OutOrStdout(), "%-25s %s\n", c.Label, c.Package)
			}
			return nil
		},
	})

	return cmd
}

func newHistoryCommand(container *app.Container) *cobra.Command {
	var limit int
	var search string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show resolution history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.History == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "history is disabled in config")
				return nil
			}
			records, err := container.History.Records(limit, search)
			if err != nil {
				return err
			}
			for _, rec := range records {
				status := "ok"
				if !rec.Success {
					status = "failed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-22s %-10s %.2f  %s  %q\n",
					rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
					rec.Action, rec.Tier, rec.Score, status, rec.Utterance)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.History == nil {
				return nil
			}
			return container.History.Clear()
		},
	})

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max records to show")
	cmd.Flags().StringVar(&search, "search", "", "Filter by utterance or action substring")
	return cmd
}

func newConfigCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(container.ConfigLoader.Path())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), container.ConfigLoader.Path())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value by dotted key (e.g. intent.top_k)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(container.ConfigLoader.Path())
			if err != nil {
				return err
			}
			tree := map[string]interface{}{}
			if err := yaml.Unmarshal(data, &tree); err != nil {
				return err
			}
			value, ok := configValueAt(tree, args[0])
			if !ok {
				return fmt.Errorf("no such key %q", args[0])
			}
			if _, section := value.(map[string]interface{}); section {
				rendered, err := yaml.Marshal(value)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), string(rendered))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration value by dotted key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := container.ConfigLoader.Path()
			previous, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			tree := map[string]interface{}{}
			if err := yaml.Unmarshal(previous, &tree); err != nil {
				return err
			}

			// YAML-parse the value so numbers and booleans keep their type.
			var value interface{}
			if err := yaml.Unmarshal([]byte(args[1]), &value); err != nil {
				value = args[1]
			}
			if err := setConfigValue(tree, args[0], value); err != nil {
				return err
			}

			updated, err := yaml.Marshal(tree)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, updated, domain.SecureFilePermissions); err != nil {
				return err
			}
			if _, err := container.ConfigLoader.Load(cmd.Context()); err != nil {
				if restoreErr := os.WriteFile(path, previous, domain.SecureFilePermissions); restoreErr != nil {
					return fmt.Errorf("invalid value (%v) and restore failed: %w", err, restoreErr)
				}
				return fmt.Errorf("rejected: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", args[0], value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "thresholds",
		Short: "Print the active cascade thresholds",
		RunE: func(cmd *cobra.Command, args []string) error {
			ic := container.Config.Intent
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "confident:", strconv.FormatFloat(ic.ConfidentThreshold, 'f', -1, 64))
			fmt.Fprintln(out, "uncertain:", strconv.FormatFloat(ic.UncertainThreshold, 'f', -1, 64))
			fmt.Fprintln(out, "floor:    ", strconv.FormatFloat(ic.FloorThreshold, 'f', -1, 64))
			return nil
		},
	})

	return cmd
}

// configValueAt walks a dotted key path through a parsed YAML tree.
func configValueAt(tree map[string]interface{}, key string) (interface{}, bool) {
	var node interface{} = tree
	for _, part := range strings.Split(key, ".") {
		section, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if node, ok = section[part]; !ok {
			return nil, false
		}
	}
	return node, true
}

// setConfigValue writes value at a dotted key path, creating intermediate
// sections as needed.
func setConfigValue(tree map[string]interface{}, key string, value interface{}) error {
	parts := strings.Split(key, ".")
	node := tree
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part]
		if !ok {
			next := map[string]interface{}{}
			node[part] = next
			node = next
			continue
		}
		section, ok := child.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%q is a value, not a section", part)
		}
		node = section
	}
	node[parts[len(parts)-1]] = value
	return nil
}

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check adb, device, classifier and stores",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := container.Doctor.Run(cmd.Context())
			renderHealthReport(cmd, report)
			return err
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "droidai", version)
			return nil
		},
	}
}
