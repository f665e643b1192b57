package amazfit

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

// ReadinessSample holds one day's readiness scores. The endpoint reports
// every value as a string and uses 255 (or an empty string) as a "no data"
// sentinel, so all fields are pointers that stay nil when absent. SkinTemp is
// the signed deviation from the personal baseline in degrees Celsius.
type ReadinessSample struct {
	Date          string   `json:"date"`
	Score         *int     `json:"score"`
	HrvScore      *int     `json:"hrv_score"`
	HrvBaseline   *int     `json:"hrv_baseline"`
	SleepHrv      *int     `json:"sleep_hrv"`
	SleepRhr      *int     `json:"sleep_rhr"`
	RhrBaseline   *int     `json:"rhr_baseline"`
	SkinTemp      *float64 `json:"skin_temp"`
	MentalScore   *int     `json:"mental_score"`
	PhysicalScore *int     `json:"physical_score"`
}

// ReadinessService handles communication with the readiness event type.
type ReadinessService struct {
	client *Client
}

type readinessItem struct {
	Timestamp unixMillis      `json:"timestamp"`
	SubType   string          `json:"subType"`
	RdnsScore json.RawMessage `json:"rdnsScore"`
	HrvScore  json.RawMessage `json:"hrvScore"`
	HrvBase   json.RawMessage `json:"hrvBaseline"`
	SleepHrv  json.RawMessage `json:"sleepHRV"`
	SleepRhr  json.RawMessage `json:"sleepRHR"`
	RhrBase   json.RawMessage `json:"rhrBaseline"`
	SkinTemp  json.RawMessage `json:"skinTempCalibrated"`
	MentScore json.RawMessage `json:"mentScore"`
	PhyScore  json.RawMessage `json:"phyScore"`
}

// List returns one readiness sample per day in the inclusive range, ordered
// by date ascending. The endpoint can report several watch_score items per
// day; the most complete one wins.
func (s *ReadinessService) List(ctx context.Context, start, end time.Time) ([]ReadinessSample, error) {
	items, err := s.client.events(ctx, "readiness", start, end, nil)
	if err != nil {
		return nil, err
	}

	const endpoint = "events/readiness"

	days := make(map[string]ReadinessSample)
	for _, raw := range items {
		var item readinessItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, &ParseError{Endpoint: endpoint, Err: err}
		}

		// Only the watch_score subtype carries scores.
		if item.SubType != "watch_score" {
			continue
		}
		if item.Timestamp == 0 {
			return nil, &ParseError{Endpoint: endpoint, Field: "timestamp"}
		}

		sample := ReadinessSample{
			Date:          item.Timestamp.Date(),
			Score:         optInt(item.RdnsScore),
			HrvScore:      optInt(item.HrvScore),
			HrvBaseline:   optInt(item.HrvBase),
			SleepHrv:      optInt(item.SleepHrv),
			SleepRhr:      optInt(item.SleepRhr),
			RhrBaseline:   optInt(item.RhrBase),
			SkinTemp:      optSkinTemp(item.SkinTemp),
			MentalScore:   optInt(item.MentScore),
			PhysicalScore: optInt(item.PhyScore),
		}

		if !dateInRange(sample.Date, start, end) {
			continue
		}
		if existing, ok := days[sample.Date]; !ok || sample.fieldCount() > existing.fieldCount() {
			days[sample.Date] = sample
		}
	}

	out := make([]ReadinessSample, 0, len(days))
	for _, sample := range days {
		out = append(out, sample)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// fieldCount counts populated fields, used to pick the most complete record
// when the endpoint reports a day more than once.
func (r ReadinessSample) fieldCount() int {
	n := 0
	for _, p := range []*int{
		r.Score, r.HrvScore, r.HrvBaseline, r.SleepHrv,
		r.SleepRhr, r.RhrBaseline, r.MentalScore, r.PhysicalScore,
	} {
		if p != nil {
			n++
		}
	}
	if r.SkinTemp != nil {
		n++
	}
	return n
}

// optValue extracts the readiness endpoint's string-or-number tokens. It
// returns "" for absent values.
func optValue(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}
	s := string(bytes.Trim(trimmed, `"`))
	// 255 is the firmware's "no data" sentinel.
	if s == "" || s == "255" {
		return ""
	}
	return s
}

func optInt(raw json.RawMessage) *int {
	s := optValue(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// optSkinTemp converts the calibrated skin temperature, reported in tenths of
// a degree, into a signed delta in degrees Celsius.
func optSkinTemp(raw json.RawMessage) *float64 {
	s := optValue(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	v /= 10
	return &v
}
