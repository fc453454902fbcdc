package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"farewatch/internal/domain/entity"
)

// maxDetailedOffers caps how many offers get a detail block in the email.
const maxDetailedOffers = 10

// EmailContent is a rendered notification message.
type EmailContent struct {
	Subject  string
	TextBody string
	HTMLBody string
}

type emailData struct {
	Route          string
	DepartureSpan  string
	ReturnSpan     string
	Passengers     int
	TravelClass    string
	OfferCount     int
	Offers         []offerView
	OverflowCount  int
	Recommendation string
	GeneratedAt    string
}

type offerView struct {
	Index   int
	Source  string
	Date    string
	Price   string
	Airline string
}

const textBodyTemplate = `Flight Search Results
======================

Search Parameters:
- Route: {{.Route}}
- Departure: {{.DepartureSpan}}
- Return: {{.ReturnSpan}}
- Passengers: {{.Passengers}}
- Class: {{.TravelClass}}

Found {{.OfferCount}} flight options.

AI Analysis:
{{.Recommendation}}

Flight Details:
{{range .Offers}}
{{.Index}}. {{.Source}}
   Date: {{.Date}}
   Price: {{.Price}}
   Airline: {{.Airline}}
{{end}}{{if gt .OverflowCount 0}}
... and {{.OverflowCount}} more flights
{{end}}
---
Generated on {{.GeneratedAt}}
`

const htmlBodyTemplate = `<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 800px; margin: 0 auto; padding: 20px; }
  h1 { color: #2c3e50; border-bottom: 3px solid #3498db; padding-bottom: 10px; }
  h2 { color: #34495e; margin-top: 30px; }
  .params { background: #ecf0f1; padding: 15px; border-radius: 5px; margin: 20px 0; }
  .param-item { margin: 5px 0; }
  .analysis { background: #e8f5e9; padding: 15px; border-left: 4px solid #4caf50; margin: 20px 0; white-space: pre-wrap; }
  .flight { background: #fff; border: 1px solid #ddd; padding: 15px; margin: 10px 0; border-radius: 5px; }
  .flight-header { font-weight: bold; color: #2980b9; margin-bottom: 10px; }
  .price { color: #27ae60; font-size: 1.2em; font-weight: bold; }
  .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd; color: #7f8c8d; font-size: 0.9em; }
</style>
</head>
<body>
<div class="container">
  <h1>&#9992;&#65039; Flight Search Results</h1>

  <div class="params">
    <h2>Search Parameters</h2>
    <div class="param-item"><strong>Route:</strong> {{.Route}}</div>
    <div class="param-item"><strong>Departure:</strong> {{.DepartureSpan}}</div>
    <div class="param-item"><strong>Return:</strong> {{.ReturnSpan}}</div>
    <div class="param-item"><strong>Passengers:</strong> {{.Passengers}}</div>
    <div class="param-item"><strong>Class:</strong> {{.TravelClass}}</div>
  </div>

  <h2>&#128202; Found {{.OfferCount}} Flight Options</h2>

  <div class="analysis">
    <h2>&#129302; AI Analysis</h2>
    <p>{{.Recommendation}}</p>
  </div>

  <h2>Flight Details</h2>
  {{range .Offers}}
  <div class="flight">
    <div class="flight-header">Flight {{.Index}} - {{.Source}}</div>
    <div><strong>Date:</strong> {{.Date}}</div>
    <div class="price">Price: {{.Price}}</div>
    <div><strong>Airline:</strong> {{.Airline}}</div>
  </div>
  {{end}}
  {{if gt .OverflowCount 0}}<p><em>... and {{.OverflowCount}} more flights</em></p>{{end}}

  <div class="footer">Generated on {{.GeneratedAt}}</div>
</div>
</body>
</html>
`

var (
	textTmpl = texttemplate.Must(texttemplate.New("text").Parse(textBodyTemplate))
	htmlTmpl = template.Must(template.New("html").Parse(htmlBodyTemplate))
)

// RenderAnalysisEmail builds the notification message for one run's result.
func RenderAnalysisEmail(criteria entity.SearchCriteria, offers []entity.Offer, analysis *entity.AnalysisEntry) (*EmailContent, error) {
	data := buildEmailData(criteria, offers, analysis)

	var textBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, data); err != nil {
		return nil, fmt.Errorf("rendering text body: %w", err)
	}
	var htmlBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("rendering html body: %w", err)
	}

	return &EmailContent{
		Subject:  fmt.Sprintf("Flight Search Results: %s → %s", criteria.DepartureAirport, criteria.DestinationAirport),
		TextBody: textBuf.String(),
		HTMLBody: htmlBuf.String(),
	}, nil
}

func buildEmailData(criteria entity.SearchCriteria, offers []entity.Offer, analysis *entity.AnalysisEntry) emailData {
	data := emailData{
		Route:          criteria.DepartureAirport + " → " + criteria.DestinationAirport,
		DepartureSpan:  criteria.DepartureDateStart + " to " + criteria.DepartureDateEnd,
		ReturnSpan:     criteria.ReturnDateStart + " to " + criteria.ReturnDateEnd,
		Passengers:     criteria.Passengers,
		TravelClass:    criteria.DisplayClass(),
		OfferCount:     len(offers),
		Recommendation: "No analysis available.",
		GeneratedAt:    time.Now().Format("2006-01-02 15:04:05"),
	}
	if summary := strings.TrimSpace(analysis.Summary()); summary != "" {
		data.Recommendation = summary
	}

	shown := offers
	if len(shown) > maxDetailedOffers {
		shown = shown[:maxDetailedOffers]
		data.OverflowCount = len(offers) - maxDetailedOffers
	}
	for i := range shown {
		o := &shown[i]
		price := "N/A"
		if o.Priced() {
			price = fmt.Sprintf("$%.2f", *o.Price)
		}
		data.Offers = append(data.Offers, offerView{
			Index:   i + 1,
			Source:  o.Source,
			Date:    o.DepartureDate,
			Price:   price,
			Airline: o.Airline,
		})
	}
	return data
}
