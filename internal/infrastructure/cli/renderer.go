package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/droidai/internal/application/dispatch"
	"github.com/doeshing/droidai/internal/domain"
)

func renderReply(cmd *cobra.Command, reply dispatch.Reply) {
	out := cmd.OutOrStdout()
	if reply.Message != "" {
		fmt.Fprintln(out, reply.Message)
	}
	if reply.Err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", reply.Err)
	}
}

// renderResolution shows what an utterance resolves to without executing
// it. Only non-zero command fields are printed.
func renderResolution(cmd *cobra.Command, res *domain.Resolution) {
	out := cmd.OutOrStdout()
	if res == nil {
		fmt.Fprintln(out, "not understood")
		return
	}

	c := res.Command
	fmt.Fprintf(out, "action:    %s\n", c.Action)
	fmt.Fprintf(out, "tier:      %s\n", res.Tier)
	fmt.Fprintf(out, "score:     %.2f\n", res.Score)
	if c.Query != "" {
		fmt.Fprintf(out, "query:     %q\n", c.Query)
	}
	if c.Package != "" {
		fmt.Fprintf(out, "package:   %s\n", c.Package)
	}
	if c.Text != "" {
		fmt.Fprintf(out, "text:      %q\n", c.Text)
	}
	if c.Direction != "" {
		fmt.Fprintf(out, "direction: %s\n", c.Direction)
	}
	if c.Amount != 0 {
		fmt.Fprintf(out, "amount:    %d\n", c.Amount)
	}
	if c.X != 0 || c.Y != 0 {
		fmt.Fprintf(out, "point:     %d,%d\n", c.X, c.Y)
	}
}

func renderStats(cmd *cobra.Command, stats domain.IntentStats, indexSize int, classifierAvailable bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cache hits:  %d\n", stats.CacheHits)
	fmt.Fprintf(out, "tier 1:      %d\n", stats.Tier1)
	fmt.Fprintf(out, "tier 2:      %d\n", stats.Tier2)
	fmt.Fprintf(out, "misses:      %d\n", stats.Misses)
	fmt.Fprintf(out, "index size:  %d\n", indexSize)
	fmt.Fprintf(out, "classifier:  %s\n", availability(classifierAvailable))
}

func availability(available bool) string {
	if available {
		return "available"
	}
	return "offline"
}

func renderHealthReport(cmd *cobra.Command, report domain.HealthReport) {
	out := cmd.OutOrStdout()
	for _, check := range report.Checks {
		marker := "ok  "
		switch check.Status {
		case domain.HealthWarn:
			marker = "warn"
		case domain.HealthError:
			marker = "FAIL"
		}
		fmt.Fprintf(out, "[%s] %-12s %s\n", marker, check.Name, check.Details)
	}
}
