package query

import (
	"encoding/json"
	"math"
)

// Label pairs used for the derived rates
const (
	labelProcessed = "processed"
	labelDelivered = "delivered"
	labelOpen      = "open"
	labelClick     = "click"
)

// LabelCount is the number of events with one label for an email
type LabelCount struct {
	Label string
	Count int64
}

// EmailStats holds per-label counts and derived percentages for one email.
// A rate is nil when its denominator is zero or its labels were not counted.
type EmailStats struct {
	Counts       []LabelCount
	DeliveryRate *int64
	OpenRate     *int64
	ClickRate    *int64
}

func newEmailStats(counts []LabelCount) *EmailStats {
	s := &EmailStats{Counts: counts}
	s.DeliveryRate = s.rate(labelDelivered, labelProcessed)
	s.OpenRate = s.rate(labelOpen, labelDelivered)
	s.ClickRate = s.rate(labelClick, labelDelivered)
	return s
}

// Count returns the count recorded for label
func (s *EmailStats) Count(label string) (int64, bool) {
	for _, c := range s.Counts {
		if c.Label == label {
			return c.Count, true
		}
	}
	return 0, false
}

func (s *EmailStats) rate(num, den string) *int64 {
	n, ok := s.Count(num)
	if !ok {
		return nil
	}
	d, ok := s.Count(den)
	if !ok || d == 0 {
		return nil
	}
	r := int64(math.Round(float64(n) / float64(d) * 100))
	return &r
}

// MarshalJSON renders the labels and the rates as one flat object
func (s *EmailStats) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Counts)+3)
	for _, c := range s.Counts {
		out[c.Label] = c.Count
	}
	out["delivery_rate"] = s.DeliveryRate
	out["open_rate"] = s.OpenRate
	out["click_rate"] = s.ClickRate
	return json.Marshal(out)
}
