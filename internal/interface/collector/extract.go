package collector

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"farewatch/internal/domain/entity"
)

const rawSnippetLimit = 200

var (
	priceRe    = regexp.MustCompile(`\$\s?(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`)
	durationRe = regexp.MustCompile(`(\d{1,2})\s*hr?s?\b(?:\s*(\d{1,2})\s*min)?`)
	stopsRe    = regexp.MustCompile(`(?i)\b(nonstop|non-stop|(\d+)\s+stops?)\b`)
)

// offerFromText builds one Offer from the visible text of a result element.
// Price extraction is best-effort: when no currency amount is found the price
// stays nil and the offer is kept for audit only.
func offerFromText(source, depDate, retDate, text string) entity.Offer {
	offer := entity.Offer{
		Source:        source,
		DepartureDate: depDate,
		ReturnDate:    retDate,
		Airline:       "Unknown",
		Duration:      "Unknown",
		Stops:         "Unknown",
		RawData:       snippet(text),
		ObservedAt:    time.Now(),
	}

	if price, ok := extractPrice(text); ok {
		offer.Price = &price
	}
	if d := durationRe.FindString(text); d != "" {
		offer.Duration = d
	}
	if s := stopsRe.FindString(text); s != "" {
		offer.Stops = strings.ToLower(s)
	}
	return offer
}

// extractPrice returns the first currency amount in the text.
func extractPrice(text string) (float64, bool) {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

func snippet(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > rawSnippetLimit {
		return text[:rawSnippetLimit]
	}
	return text
}
