package amazfit

import (
	"context"
	"encoding/json"
	"sort"
	"time"
)

// StressSample holds one day's all-day stress measurement. The four band
// percentages come from the device and need not sum to exactly 100.
type StressSample struct {
	Date           string          `json:"date"`
	Avg            int             `json:"avg"`
	Min            int             `json:"min"`
	Max            int             `json:"max"`
	RelaxedPercent int             `json:"relaxed_percent"`
	NormalPercent  int             `json:"normal_percent"`
	MediumPercent  int             `json:"medium_percent"`
	HighPercent    int             `json:"high_percent"`
	Readings       []StressReading `json:"readings,omitempty"`
}

// StressReading is a single timestamped stress value (0-100).
type StressReading struct {
	Time  time.Time `json:"time"`
	Value int       `json:"value"`
}

// StressService handles communication with the all-day stress event type.
type StressService struct {
	client *Client
}

// stressItem is the wire shape of one all_day_stress event. Required fields
// are pointers so that absence is distinguishable from zero.
type stressItem struct {
	Timestamp unixMillis `json:"timestamp"`
	Avg       *flexInt   `json:"avgStress"`
	Min       *flexInt   `json:"minStress"`
	Max       *flexInt   `json:"maxStress"`
	Relax     *flexInt   `json:"relaxProportion"`
	Normal    *flexInt   `json:"normalProportion"`
	Medium    *flexInt   `json:"mediumProportion"`
	High      *flexInt   `json:"highProportion"`
	Data      string     `json:"data"`
}

type stressPoint struct {
	Time  unixMillis `json:"time"`
	Value flexInt    `json:"value"`
}

// List returns one stress sample per day in the inclusive range, ordered by
// date ascending.
func (s *StressService) List(ctx context.Context, start, end time.Time) ([]StressSample, error) {
	items, err := s.client.events(ctx, "all_day_stress", start, end, nil)
	if err != nil {
		return nil, err
	}

	const endpoint = "events/all_day_stress"

	var out []StressSample
	for _, raw := range items {
		var item stressItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, &ParseError{Endpoint: endpoint, Err: err}
		}

		switch {
		case item.Timestamp == 0:
			return nil, &ParseError{Endpoint: endpoint, Field: "timestamp"}
		case item.Avg == nil:
			return nil, &ParseError{Endpoint: endpoint, Field: "avgStress"}
		case item.Min == nil:
			return nil, &ParseError{Endpoint: endpoint, Field: "minStress"}
		case item.Max == nil:
			return nil, &ParseError{Endpoint: endpoint, Field: "maxStress"}
		case item.Relax == nil:
			return nil, &ParseError{Endpoint: endpoint, Field: "relaxProportion"}
		case item.Normal == nil:
			return nil, &ParseError{Endpoint: endpoint, Field: "normalProportion"}
		case item.Medium == nil:
			return nil, &ParseError{Endpoint: endpoint, Field: "mediumProportion"}
		case item.High == nil:
			return nil, &ParseError{Endpoint: endpoint, Field: "highProportion"}
		}

		sample := StressSample{
			Date:           item.Timestamp.Date(),
			Avg:            int(*item.Avg),
			Min:            int(*item.Min),
			Max:            int(*item.Max),
			RelaxedPercent: int(*item.Relax),
			NormalPercent:  int(*item.Normal),
			MediumPercent:  int(*item.Medium),
			HighPercent:    int(*item.High),
		}

		// The embedded reading series is best-effort; the daily aggregates
		// above are authoritative.
		var points []stressPoint
		if item.Data != "" && json.Unmarshal([]byte(item.Data), &points) == nil {
			for _, p := range points {
				sample.Readings = append(sample.Readings, StressReading{
					Time:  p.Time.Time(),
					Value: int(p.Value),
				})
			}
		}

		if !dateInRange(sample.Date, start, end) {
			continue
		}
		out = append(out, sample)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
