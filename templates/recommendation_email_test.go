package templates

import (
	"strings"
	"testing"

	"farewatch/internal/domain/entity"
)

func renderCriteria() entity.SearchCriteria {
	return entity.SearchCriteria{
		DepartureAirport:   "IAD",
		DestinationAirport: "IDR",
		DepartureDateStart: "2026-06-13",
		DepartureDateEnd:   "2026-06-17",
		ReturnDateStart:    "2026-06-30",
		ReturnDateEnd:      "2026-07-05",
		Passengers:         1,
		TravelClass:        "economy",
	}
}

func TestRenderAnalysisEmail(t *testing.T) {
	price := 532.0
	offers := []entity.Offer{{
		Source:        "google_flights",
		DepartureDate: "2026-06-14",
		Price:         &price,
		Airline:       "Unknown",
	}}
	analysis := entity.NewTextAnalysis("Book now: prices are trending up.")

	content, err := RenderAnalysisEmail(renderCriteria(), offers, analysis)
	if err != nil {
		t.Fatalf("rendering: %v", err)
	}

	if !strings.Contains(content.Subject, "IAD") || !strings.Contains(content.Subject, "IDR") {
		t.Errorf("subject missing route: %q", content.Subject)
	}
	for _, body := range []string{content.TextBody, content.HTMLBody} {
		if !strings.Contains(body, "Book now") {
			t.Error("body missing recommendation")
		}
		if !strings.Contains(body, "$532.00") {
			t.Error("body missing offer price")
		}
		if !strings.Contains(body, "google_flights") {
			t.Error("body missing offer source")
		}
	}
	if !strings.Contains(content.TextBody, "Found 1 flight options") {
		t.Errorf("text body missing offer count:\n%s", content.TextBody)
	}
}

func TestRenderAnalysisEmailWithoutAnalysis(t *testing.T) {
	content, err := RenderAnalysisEmail(renderCriteria(), nil, nil)
	if err != nil {
		t.Fatalf("rendering: %v", err)
	}
	if !strings.Contains(content.TextBody, "No analysis available.") {
		t.Error("missing analysis placeholder")
	}
}

func TestRenderAnalysisEmailCapsOfferList(t *testing.T) {
	var offers []entity.Offer
	for i := 0; i < 14; i++ {
		p := float64(400 + i)
		offers = append(offers, entity.Offer{Source: "expedia", DepartureDate: "2026-06-14", Price: &p})
	}

	content, err := RenderAnalysisEmail(renderCriteria(), offers, entity.NewTextAnalysis("ok"))
	if err != nil {
		t.Fatalf("rendering: %v", err)
	}
	if !strings.Contains(content.TextBody, "and 4 more flights") {
		t.Errorf("overflow note missing:\n%s", content.TextBody)
	}
	if strings.Count(content.TextBody, "expedia") != maxDetailedOffers {
		t.Errorf("expected %d detailed offers", maxDetailedOffers)
	}
}
