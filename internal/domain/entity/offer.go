package entity

import (
	"strings"
	"time"
)

// Travel classes accepted in search criteria
const (
	ClassEconomy  = "economy"
	ClassBusiness = "business"
	ClassFirst    = "first"
)

// Offer represents one priced flight option observed during a collection run.
// Price is nil when extraction from the source page failed; such offers are
// kept for audit but never enter price statistics.
type Offer struct {
	Source        string    `json:"source"`
	DepartureDate string    `json:"departure_date"`
	ReturnDate    string    `json:"return_date"`
	Price         *float64  `json:"price"`
	Airline       string    `json:"airline"`
	Duration      string    `json:"duration"`
	Stops         string    `json:"stops"`
	RawData       string    `json:"raw_data,omitempty"`
	ObservedAt    time.Time `json:"timestamp"`
}

// Priced reports whether the offer carries a usable price.
func (o *Offer) Priced() bool {
	return o.Price != nil && *o.Price >= 0
}

// SearchCriteria holds the immutable parameters of a single search run.
type SearchCriteria struct {
	DepartureAirport   string
	DestinationAirport string
	DepartureDateStart string
	DepartureDateEnd   string
	ReturnDateStart    string
	ReturnDateEnd      string
	Passengers         int
	TravelClass        string
}

// NormalizeTravelClass maps free-text class input to one of the known travel
// classes. Unrecognized values are kept verbatim, title-cased for display.
func NormalizeTravelClass(class string) string {
	switch strings.ToLower(strings.TrimSpace(class)) {
	case "economy", "coach", "eco":
		return ClassEconomy
	case "business", "biz":
		return ClassBusiness
	case "first", "first class":
		return ClassFirst
	}
	trimmed := strings.TrimSpace(class)
	if trimmed == "" {
		return ClassEconomy
	}
	return titleCase(trimmed)
}

// DisplayClass renders the travel class for human-facing output.
func (c *SearchCriteria) DisplayClass() string {
	return titleCase(NormalizeTravelClass(c.TravelClass))
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
