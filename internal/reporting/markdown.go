package reporting

import (
	"fmt"
	"strings"
	"time"

	"squeeze-radar/internal/domain"
)

// RenderMarkdown renders a run report as a Markdown string.
func RenderMarkdown(r *domain.RunReport) string {
	var sb strings.Builder

	sb.WriteString("# Squeeze Radar Run\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n",
		time.UnixMilli(r.TimestampMs).UTC().Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("New alerts: %d | All candidates: %d\n\n",
		len(r.Alerts), len(r.AllCandidates)))

	if len(r.AllCandidates) == 0 {
		sb.WriteString("No qualifying candidates this run.\n")
		return sb.String()
	}

	sb.WriteString("## Candidates\n\n")
	sb.WriteString("| Instrument | Direction | Conviction | RSI | Funding | Triple | Status |\n")
	sb.WriteString("|------------|-----------|------------|-----|---------|--------|--------|\n")
	for _, a := range r.AllCandidates {
		status := "cooldown"
		if a.IsNew {
			status = "new"
		}
		triple := ""
		if a.TripleConfluence {
			triple = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.1f | %.4f%% | %s | %s |\n",
			a.Instrument, a.Direction, a.Conviction, a.RSIValue,
			a.AvgFundingRate*100, triple, status))
	}
	sb.WriteString("\n")

	for _, a := range r.AllCandidates {
		sb.WriteString(fmt.Sprintf("### %s %s — %s\n\n", a.Instrument, a.Direction, a.Conviction))
		for _, reason := range a.Reasons {
			sb.WriteString(fmt.Sprintf("- %s\n", reason))
		}
		if a.EMANote != "" {
			sb.WriteString(fmt.Sprintf("- ema: %s\n", a.EMANote))
		}
		if a.MTFNote != "" {
			sb.WriteString(fmt.Sprintf("- mtf: %s\n", a.MTFNote))
		}
		if a.OBNote != "" {
			sb.WriteString(fmt.Sprintf("- orderbook: %s\n", a.OBNote))
		}
		if a.VolNote != "" {
			sb.WriteString(fmt.Sprintf("- volume: %s\n", a.VolNote))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
