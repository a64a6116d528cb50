// Package render formats an InspectResult for the terminal. The core
// stays presentation-agnostic; everything cosmetic lives here.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/probelabs/driftscan/pkg/report"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)

	scoreLow  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")) // green
	scoreMid  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")) // yellow
	scoreHigh = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))  // red
)

func scoreStyle(score int) lipgloss.Style {
	switch {
	case score < 30:
		return scoreLow
	case score < 60:
		return scoreMid
	default:
		return scoreHigh
	}
}

// Text writes a human-readable drift report.
func Text(w io.Writer, res *report.InspectResult) error {
	fmt.Fprintln(w, titleStyle.Render("Memory Drift Report"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Drift score:  %s  %s\n",
		scoreStyle(res.DriftScore).Render(fmt.Sprintf("%d/100", res.DriftScore)),
		dimStyle.Render(fmt.Sprintf("(raw %.1f)", res.RawScore)))
	fmt.Fprintf(w, "Token waste:  %.1f%% of conversation tokens spent on repeated asks\n", res.TokenWastePct)
	fmt.Fprintln(w)

	if len(res.Events) == 0 {
		fmt.Fprintln(w, "No drift events detected.")
	} else {
		fmt.Fprintf(w, "%s\n", titleStyle.Render(fmt.Sprintf("Events (%d)", len(res.Events))))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "TYPE\tSEV\tCONF\tMESSAGES\tSUMMARY\n")
		for _, e := range res.Events {
			fmt.Fprintf(tw, "%s\t%d\t%.2f\t%s\t%s\n",
				e.Type, e.Severity, e.Confidence, formatIdxs(e.Evidence.MsgIdxs), e.Summary)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(res.ShouldHaveBeenMemory) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Should have been memory"))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "KEY\tVALUE\tMSG\tCONF\n")
		for _, f := range res.ShouldHaveBeenMemory {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\n", f.FactKey, f.FactValue, f.MsgIdx, f.Confidence)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if total, ok := res.TimingsMs["total"]; ok {
		fmt.Fprintln(w)
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("analyzed in %.1fms", total)))
	}
	return nil
}

func formatIdxs(idxs []int) string {
	const maxShown = 6
	parts := make([]string, 0, len(idxs))
	for i, idx := range idxs {
		if i == maxShown {
			parts = append(parts, fmt.Sprintf("+%d more", len(idxs)-maxShown))
			break
		}
		parts = append(parts, fmt.Sprintf("%d", idx))
	}
	return strings.Join(parts, ",")
}
