package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"farewatch/internal/domain/entity"
	"farewatch/pkg/logger"
)

const (
	dateLayout       = "2006-01-02"
	pageSettleWait   = 5 * time.Second
	betweenSearches  = 2 * time.Second
	maxOffersPerPage = 5
)

// siteCollector drives a headless browser over one flight-search site. Each
// departure date in the window gets its own search; the return date is the
// midpoint of the return window. Site specifics (URL shape, result selector)
// come from the concrete collectors.
type siteCollector struct {
	name     string
	selector string
	buildURL func(criteria entity.SearchCriteria, depDate, retDate string) string
	logger   logger.Logger
}

// Name identifies the source in logs and offer records.
func (c *siteCollector) Name() string {
	return c.name
}

// Search collects offers for every departure date in the criteria window. A
// single date failing is logged and skipped; the error is returned only when
// every date failed and nothing was collected.
func (c *siteCollector) Search(ctx context.Context, criteria entity.SearchCriteria) ([]entity.Offer, error) {
	depStart, err := time.Parse(dateLayout, criteria.DepartureDateStart)
	if err != nil {
		return nil, fmt.Errorf("parsing departure window start: %w", err)
	}
	depEnd, err := time.Parse(dateLayout, criteria.DepartureDateEnd)
	if err != nil {
		return nil, fmt.Errorf("parsing departure window end: %w", err)
	}
	retDate, err := middleReturnDate(criteria)
	if err != nil {
		return nil, err
	}

	bctx, cancel := newBrowserContext(ctx)
	defer cancel()

	var (
		offers  []entity.Offer
		lastErr error
	)
	for d := depStart; !d.After(depEnd); d = d.AddDate(0, 0, 1) {
		depDate := d.Format(dateLayout)
		c.logger.Info("Searching",
			"source", c.name,
			"route", criteria.DepartureAirport+"-"+criteria.DestinationAirport,
			"departure", depDate)

		texts, err := c.capture(bctx, c.buildURL(criteria, depDate, retDate))
		if err != nil {
			c.logger.Error("Search failed for date", "source", c.name, "departure", depDate, "error", err)
			lastErr = err
			continue
		}

		for _, text := range texts {
			offers = append(offers, offerFromText(c.name, depDate, retDate, text))
		}

		select {
		case <-ctx.Done():
			return offers, ctx.Err()
		case <-time.After(betweenSearches):
		}
	}

	if len(offers) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return offers, nil
}

// capture navigates to the search URL and returns the visible text of the
// first few result elements.
func (c *siteCollector) capture(ctx context.Context, url string) ([]string, error) {
	js := fmt.Sprintf(`
		(function() {
			var texts = [];
			document.querySelectorAll(%q).forEach(function(el) {
				if (texts.length >= %d) return;
				var t = el.innerText.trim();
				if (t) texts.push(t);
			});
			return texts;
		})()`, c.selector, maxOffersPerPage)

	var texts []string
	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(pageSettleWait), // give JS time to render
		chromedp.Evaluate(js, &texts),
	)
	if err != nil {
		return nil, fmt.Errorf("navigating %s: %w", url, err)
	}
	return texts, nil
}

// middleReturnDate picks the midpoint of the return window.
func middleReturnDate(criteria entity.SearchCriteria) (string, error) {
	start, err := time.Parse(dateLayout, criteria.ReturnDateStart)
	if err != nil {
		return "", fmt.Errorf("parsing return window start: %w", err)
	}
	end, err := time.Parse(dateLayout, criteria.ReturnDateEnd)
	if err != nil {
		return "", fmt.Errorf("parsing return window end: %w", err)
	}
	if end.Before(start) {
		return "", fmt.Errorf("return window end %s before start %s", criteria.ReturnDateEnd, criteria.ReturnDateStart)
	}
	return start.Add(end.Sub(start) / 2).Format(dateLayout), nil
}
