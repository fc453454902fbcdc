package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"farewatch/internal/domain/entity"
)

// BuildAnalysisPrompt constructs the request sent to the analysis
// collaborator: the current offer set, the historical price digest, and the
// four fixed questions. No I/O, fully deterministic for a given input.
func BuildAnalysisPrompt(criteria entity.SearchCriteria, offers []entity.Offer, series entity.PriceSeries) string {
	offerJSON := renderJSON(offers)
	historyJSON := renderJSON(series)

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following flight options from %s to %s:\n\n",
		criteria.DepartureAirport, criteria.DestinationAirport)
	b.WriteString("Current Flight Options:\n")
	b.WriteString(offerJSON)
	b.WriteString("\n\nHistorical Price Data:\n")
	b.WriteString(historyJSON)
	b.WriteString("\n\nPlease analyze:\n")
	b.WriteString("1. Which flight offers the best value for money?\n")
	b.WriteString("2. Are prices trending up or down?\n")
	b.WriteString("3. What is the best departure date considering price and convenience?\n")
	b.WriteString("4. Should we book now or wait for better prices?\n\n")
	b.WriteString("Provide a structured recommendation with reasoning.\n")
	return b.String()
}

// renderJSON marshals ordered structs, so output bytes are stable across
// calls with equal input.
func renderJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "null"
	}
	return string(data)
}
