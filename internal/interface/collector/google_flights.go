package collector

import (
	"fmt"
	"net/url"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"
	"farewatch/pkg/logger"
)

// SourceGoogleFlights is the source identifier stamped on collected offers.
const SourceGoogleFlights = "google_flights"

// NewGoogleFlights creates the Google Flights collector.
func NewGoogleFlights(log logger.Logger) repository.Collector {
	return &siteCollector{
		name:     SourceGoogleFlights,
		selector: "[role='listitem']",
		buildURL: googleFlightsURL,
		logger:   log,
	}
}

func googleFlightsURL(criteria entity.SearchCriteria, depDate, retDate string) string {
	query := fmt.Sprintf("flights from %s to %s on %s return %s %d passenger",
		criteria.DepartureAirport, criteria.DestinationAirport, depDate, retDate, criteria.Passengers)
	return "https://www.google.com/travel/flights?q=" + url.QueryEscape(query)
}
