package amazfit

import (
	"context"
	"math"
	"time"
)

// DaySummary joins one day's band summary with the stress, SpO2 and PAI
// highlights from their own endpoints. Highlight fields are nil when the
// corresponding endpoint reported nothing for the day.
type DaySummary struct {
	DailySummary
	AvgStress *int     `json:"avg_stress"`
	AvgSpo2   *int     `json:"avg_spo2"`
	TotalPai  *float64 `json:"total_pai"`
}

// SummaryService builds the cross-endpoint day summary.
type SummaryService struct {
	client *Client
}

// List returns one joined summary per day with band data in the inclusive
// range, ordered by date ascending. The four source sequences are fetched
// sequentially and merged by date; days present only in an auxiliary source
// are dropped, matching the band-data-driven shape of the official app.
func (s *SummaryService) List(ctx context.Context, start, end time.Time) ([]DaySummary, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	days, err := s.client.Daily.List(ctx, start, end)
	if err != nil {
		return nil, err
	}

	stress, err := s.client.Stress.List(ctx, start, end)
	if err != nil {
		return nil, err
	}
	spo2, err := s.client.Spo2.List(ctx, start, end)
	if err != nil {
		return nil, err
	}
	pai, err := s.client.Pai.List(ctx, start, end)
	if err != nil {
		return nil, err
	}

	stressByDate := make(map[string]StressSample, len(stress))
	for _, sample := range stress {
		stressByDate[sample.Date] = sample
	}
	spo2ByDate := make(map[string]Spo2Sample, len(spo2))
	for _, sample := range spo2 {
		spo2ByDate[sample.Date] = sample
	}
	paiByDate := make(map[string]PaiSample, len(pai))
	for _, sample := range pai {
		paiByDate[sample.Date] = sample
	}

	out := make([]DaySummary, 0, len(days))
	for _, day := range days {
		summary := DaySummary{DailySummary: day}

		if sample, ok := stressByDate[day.Date]; ok {
			avg := sample.Avg
			summary.AvgStress = &avg
		}
		if sample, ok := spo2ByDate[day.Date]; ok {
			if avg, ok := avgSpo2(sample.Readings); ok {
				summary.AvgSpo2 = &avg
			}
		}
		if sample, ok := paiByDate[day.Date]; ok {
			total := sample.TotalPai
			summary.TotalPai = &total
		}

		out = append(out, summary)
	}

	return out, nil
}

// avgSpo2 returns the rounded mean of a day's spot readings.
func avgSpo2(readings []Spo2Reading) (int, bool) {
	if len(readings) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range readings {
		sum += r.Spo2
	}
	return int(math.Round(float64(sum) / float64(len(readings)))), true
}
