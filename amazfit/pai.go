package amazfit

import (
	"context"
	"encoding/json"
	"sort"
	"time"
)

// PaiSample holds one day's PAI (Personal Activity Intelligence) data.
// TotalPai is the 7-day rolling score; DailyPai is the delta earned on the
// day and may be zero.
type PaiSample struct {
	Date              string  `json:"date"`
	TotalPai          float64 `json:"total_pai"`
	DailyPai          float64 `json:"daily_pai"`
	RestingHeartRate  int     `json:"resting_heart_rate"`
	MaxHeartRate      int     `json:"max_heart_rate"`
	LowZoneMinutes    int     `json:"low_zone_minutes"`
	MediumZoneMinutes int     `json:"medium_zone_minutes"`
	HighZoneMinutes   int     `json:"high_zone_minutes"`
	LowZonePai        float64 `json:"low_zone_pai"`
	MediumZonePai     float64 `json:"medium_zone_pai"`
	HighZonePai       float64 `json:"high_zone_pai"`
}

// PaiService handles communication with the PAI event type.
type PaiService struct {
	client *Client
}

type paiItem struct {
	Timestamp         unixMillis `json:"timestamp"`
	TotalPai          *flexFloat `json:"totalPai"`
	DailyPai          flexFloat  `json:"dailyPai"`
	RestHr            flexInt    `json:"restHr"`
	MaxHr             flexInt    `json:"maxHr"`
	LowZoneMinutes    flexInt    `json:"lowZoneMinutes"`
	MediumZoneMinutes flexInt    `json:"mediumZoneMinutes"`
	HighZoneMinutes   flexInt    `json:"highZoneMinutes"`
	LowZonePai        flexFloat  `json:"lowZonePai"`
	MediumZonePai     flexFloat  `json:"mediumZonePai"`
	HighZonePai       flexFloat  `json:"highZonePai"`
}

// List returns one PAI sample per day in the inclusive range, ordered by date
// ascending.
func (s *PaiService) List(ctx context.Context, start, end time.Time) ([]PaiSample, error) {
	items, err := s.client.events(ctx, "PaiHealthInfo", start, end, nil)
	if err != nil {
		return nil, err
	}

	const endpoint = "events/PaiHealthInfo"

	var out []PaiSample
	for _, raw := range items {
		var item paiItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, &ParseError{Endpoint: endpoint, Err: err}
		}
		if item.Timestamp == 0 {
			return nil, &ParseError{Endpoint: endpoint, Field: "timestamp"}
		}
		if item.TotalPai == nil {
			return nil, &ParseError{Endpoint: endpoint, Field: "totalPai"}
		}

		sample := PaiSample{
			Date:              item.Timestamp.Date(),
			TotalPai:          float64(*item.TotalPai),
			DailyPai:          float64(item.DailyPai),
			RestingHeartRate:  int(item.RestHr),
			MaxHeartRate:      int(item.MaxHr),
			LowZoneMinutes:    int(item.LowZoneMinutes),
			MediumZoneMinutes: int(item.MediumZoneMinutes),
			HighZoneMinutes:   int(item.HighZoneMinutes),
			LowZonePai:        float64(item.LowZonePai),
			MediumZonePai:     float64(item.MediumZonePai),
			HighZonePai:       float64(item.HighZonePai),
		}

		if !dateInRange(sample.Date, start, end) {
			continue
		}
		out = append(out, sample)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
