package intelligence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/scheduler"
)

// Enrichment is presentation text for one scored task.
type Enrichment struct {
	DisplayTitle string `json:"display_title"`
	TimeEstimate string `json:"time_estimate"`
	Context      string `json:"context"`
}

// maxContextReasons is how many top-weighted reasons make up a context note.
const maxContextReasons = 2

// DeterministicEnrichment builds presentation text straight from the engine
// output: the title as-is, the capacity estimate, and the strongest reasons.
func DeterministicEnrichment(st scheduler.ScoredTask) Enrichment {
	return Enrichment{
		DisplayTitle: st.Task.Title,
		TimeEstimate: FormatEstimate(st.EstimatedMin),
		Context:      reasonContext(st.Reasons),
	}
}

// FormatEstimate renders minutes as "~25 min", "~1h" or "~2h 30m".
func FormatEstimate(minutes int) string {
	if minutes <= 0 {
		return "?"
	}
	if minutes < 60 {
		return fmt.Sprintf("~%d min", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("~%dh", h)
	}
	return fmt.Sprintf("~%dh %dm", h, m)
}

func reasonContext(reasons []app.ScoreReason) string {
	var flagged []string
	ranked := make([]app.ScoreReason, 0, len(reasons))
	for _, r := range reasons {
		if r.Code == app.ReasonUnrecognizedValue {
			flagged = append(flagged, r.Message)
			continue
		}
		ranked = append(ranked, r)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].WeightDelta > ranked[j].WeightDelta
	})

	parts := make([]string, 0, maxContextReasons+len(flagged))
	for i := 0; i < len(ranked) && i < maxContextReasons; i++ {
		parts = append(parts, ranked[i].Message)
	}
	parts = append(parts, flagged...)
	return strings.Join(parts, "; ")
}
