package entity

// RunSummary is the per-run price digest appended to the tracking series.
type RunSummary struct {
	Timestamp string  `json:"timestamp"`
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	AvgPrice  float64 `json:"avg_price"`
	NumOffers int     `json:"num_flights"`
}

// PriceSeries is the running aggregate over every run that produced at least
// one priced offer. GlobalMin only ever decreases and GlobalMax only ever
// increases once seeded; History and AvgPrices are append-only and parallel.
type PriceSeries struct {
	GlobalMin *float64     `json:"min_price"`
	GlobalMax *float64     `json:"max_price"`
	AvgPrices []float64    `json:"avg_prices"`
	History   []RunSummary `json:"history"`
}

// SummarizeOffers computes the price digest for one run. Offers without a
// price are excluded. ok is false when no offer carried a price, in which
// case the run contributes nothing to the series.
func SummarizeOffers(timestamp string, offers []Offer) (RunSummary, bool) {
	var (
		count    int
		total    float64
		min, max float64
	)
	for i := range offers {
		if !offers[i].Priced() {
			continue
		}
		p := *offers[i].Price
		if count == 0 {
			min, max = p, p
		} else {
			if p < min {
				min = p
			}
			if p > max {
				max = p
			}
		}
		total += p
		count++
	}
	if count == 0 {
		return RunSummary{}, false
	}
	return RunSummary{
		Timestamp: timestamp,
		MinPrice:  min,
		MaxPrice:  max,
		AvgPrice:  total / float64(count),
		NumOffers: count,
	}, true
}

// Accumulate folds a run summary into the series. The first summary seeds the
// global extrema; afterwards they move monotonically.
func (s *PriceSeries) Accumulate(sum RunSummary) {
	if s.GlobalMin == nil || sum.MinPrice < *s.GlobalMin {
		min := sum.MinPrice
		s.GlobalMin = &min
	}
	if s.GlobalMax == nil || sum.MaxPrice > *s.GlobalMax {
		max := sum.MaxPrice
		s.GlobalMax = &max
	}
	s.History = append(s.History, sum)
	s.AvgPrices = append(s.AvgPrices, sum.AvgPrice)
}

// Runs returns how many runs have contributed to the series.
func (s PriceSeries) Runs() int {
	return len(s.History)
}
