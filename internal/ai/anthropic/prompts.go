package anthropic

import (
	"fmt"
	"strings"

	"github.com/DukeRupert/kyrisk/internal/ai"
)

// buildSuggestPrompt creates the prompt for drafting a KY (hazard prediction) sheet
func buildSuggestPrompt(params ai.SuggestParams) string {
	var b strings.Builder

	b.WriteString(`You are an experienced construction safety supervisor preparing the morning KY (kiken yochi, hazard prediction) sheet for a Japanese civil engineering site.

For the work described below, list:
1. **Hazards** - concrete ways a worker could be injured today. Name the accident type (fall, struck-by, collapse, caught-in, traffic, slip, heat stress, electric shock) and the specific cause.
2. **Countermeasures** - specific actions that prevent the hazards you listed. Each countermeasure should address at least one listed hazard.
3. **Third-party measures** - actions protecting pedestrians, drivers and neighbours near the work area.

**Important Guidelines:**
- Be specific to this work and site; avoid generic phrases such as "be careful" or "work safely"
- One item per entry, one sentence each
- At most 7 entries per list, most serious first
- Answer in the same language as the work description`)

	fmt.Fprintf(&b, "\n\n**Work Description:**\n%s", params.WorkDescription)

	if params.SiteNotes != "" {
		fmt.Fprintf(&b, "\n\n**Site Notes from Foreman:**\n%s", params.SiteNotes)
	}
	if params.ThirdParty != "" {
		fmt.Fprintf(&b, "\n\n**Third-Party Traffic Near Site:** %s", params.ThirdParty)
	}
	if w := params.Weather; w != nil {
		b.WriteString("\n\n**Weather Today:**")
		if w.PrecipitationMM != nil {
			fmt.Fprintf(&b, "\n- Precipitation: %.1f mm", *w.PrecipitationMM)
		}
		if w.WindSpeedMS != nil {
			fmt.Fprintf(&b, "\n- Wind speed: %.1f m/s", *w.WindSpeedMS)
		}
		if w.TemperatureC != nil {
			fmt.Fprintf(&b, "\n- Temperature: %.1f °C", *w.TemperatureC)
		}
	}

	b.WriteString(`

**Response Format:**
Return a JSON object with this exact structure:

{
  "hazards": ["..."],
  "countermeasures": ["..."],
  "third_party": ["..."]
}

**Important:** Return ONLY the JSON object, no additional text or explanation.`)

	return b.String()
}
