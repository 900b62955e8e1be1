package reporting

import (
	"fmt"
	"strings"

	"squeeze-radar/internal/domain"
)

// RenderCSV renders all candidates of a run as a CSV string.
func RenderCSV(r *domain.RunReport) string {
	var sb strings.Builder

	sb.WriteString("instrument,direction,conviction,rsi_value,avg_funding_rate,oi_usd,")
	sb.WriteString("ema_confirms,triple_confluence,is_new,reasons\n")

	for _, a := range r.AllCandidates {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%.2f,%.6f,%.0f,%t,%t,%t,%q\n",
			a.Instrument,
			a.Direction,
			a.Conviction,
			a.RSIValue,
			a.AvgFundingRate,
			a.OpenInterest,
			a.EMAConfirms,
			a.TripleConfluence,
			a.IsNew,
			strings.Join(a.Reasons, "; "),
		))
	}

	return sb.String()
}
