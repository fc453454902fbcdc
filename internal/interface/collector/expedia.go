package collector

import (
	"fmt"
	"time"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"
	"farewatch/pkg/logger"
)

// SourceExpedia is the source identifier stamped on collected offers.
const SourceExpedia = "expedia"

// NewExpedia creates the Expedia collector.
func NewExpedia(log logger.Logger) repository.Collector {
	return &siteCollector{
		name:     SourceExpedia,
		selector: "[data-test-id*='offer']",
		buildURL: expediaURL,
		logger:   log,
	}
}

func expediaURL(criteria entity.SearchCriteria, depDate, retDate string) string {
	// Expedia wants MM/DD/YYYY
	dep := reformatDate(depDate)
	ret := reformatDate(retDate)
	return fmt.Sprintf(
		"https://www.expedia.com/Flights-Search?trip=roundtrip&leg1=from:%s,to:%s,departure:%s&leg2=from:%s,to:%s,departure:%s&passengers=adults:%d",
		criteria.DepartureAirport, criteria.DestinationAirport, dep,
		criteria.DestinationAirport, criteria.DepartureAirport, ret,
		criteria.Passengers)
}

func reformatDate(isoDate string) string {
	d, err := time.Parse(dateLayout, isoDate)
	if err != nil {
		return isoDate
	}
	return d.Format("01/02/2006")
}
