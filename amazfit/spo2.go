package amazfit

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"time"
)

// Spo2Sample holds one day's blood oxygen data: the sleep desaturation
// analysis plus any spot readings and detected apnea events.
type Spo2Sample struct {
	Date      string        `json:"date"`
	Odi       float64       `json:"odi"`
	OdiEvents int           `json:"odi_events"`
	Score     int           `json:"score"`
	Readings  []Spo2Reading `json:"readings,omitempty"`
	OsaEvents []OsaEvent    `json:"osa_events,omitempty"`
}

// Spo2Reading is a single spot measurement, taken manually or by the device's
// periodic sampling.
type Spo2Reading struct {
	Time time.Time `json:"time"`
	Spo2 int       `json:"spo2"`
	Auto bool      `json:"auto"`
}

// OsaEvent is one detected sleep apnea event with its sample series.
type OsaEvent struct {
	Time         time.Time `json:"time"`
	Spo2Decrease int       `json:"spo2_decrease"`
	Spo2Samples  []int     `json:"spo2_samples,omitempty"`
	HrSamples    []int     `json:"hr_samples,omitempty"`
}

// Spo2Service handles communication with the blood oxygen event type.
type Spo2Service struct {
	client *Client
}

// spo2Item is the wire shape shared by the odi, click and osa_event
// subtypes; each subtype populates a different subset.
type spo2Item struct {
	Timestamp unixMillis      `json:"timestamp"`
	SubType   string          `json:"subType"`
	Odi       flexFloat       `json:"odi"`
	OdiNum    flexInt         `json:"odiNum"`
	Score     flexInt         `json:"score"`
	Spo2      flexInt         `json:"spo2"`
	Value     flexInt         `json:"value"`
	Extra     json.RawMessage `json:"extra"`
}

// clickExtra is the payload of a spot reading, nested under extra.
type clickExtra struct {
	Timestamp   unixMillis `json:"timestamp"`
	Spo2        flexInt    `json:"spo2"`
	Spo2History []flexInt  `json:"spo2History"`
	IsAuto      bool       `json:"isAuto"`
}

// osaExtra is the payload of an apnea event, nested under extra.
type osaExtra struct {
	Timestamp    unixMillis `json:"timestamp"`
	Spo2Decrease flexInt    `json:"spo2_decrease"`
	Spo2         []flexInt  `json:"spo2"`
	Hr           []flexInt  `json:"hr"`
}

// List returns one SpO2 sample per day in the inclusive range, ordered by
// date ascending. Days are assigned in the client's configured time zone by
// the upstream service.
func (s *Spo2Service) List(ctx context.Context, start, end time.Time) ([]Spo2Sample, error) {
	extra := url.Values{}
	extra.Set("timeZone", s.client.timeZone)

	items, err := s.client.events(ctx, "blood_oxygen", start, end, extra)
	if err != nil {
		return nil, err
	}

	const endpoint = "events/blood_oxygen"

	days := make(map[string]*Spo2Sample)
	day := func(date string) *Spo2Sample {
		if d, ok := days[date]; ok {
			return d
		}
		d := &Spo2Sample{Date: date}
		days[date] = d
		return d
	}

	for _, raw := range items {
		var item spo2Item
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, &ParseError{Endpoint: endpoint, Err: err}
		}
		if item.Timestamp == 0 {
			return nil, &ParseError{Endpoint: endpoint, Field: "timestamp"}
		}

		switch item.SubType {
		case "odi":
			d := day(item.Timestamp.Date())
			d.Odi = float64(item.Odi)
			d.OdiEvents = int(item.OdiNum)
			if item.Score > 0 {
				d.Score = int(item.Score)
			}

		case "click":
			var ex clickExtra
			_ = json.Unmarshal(extraPayload(item.Extra), &ex)

			val := int(item.Spo2)
			if val == 0 {
				val = int(item.Value)
			}
			if val == 0 {
				val = int(ex.Spo2)
			}
			if val == 0 {
				// Fall back to the newest non-zero history entry.
				for i := len(ex.Spo2History) - 1; i >= 0; i-- {
					if ex.Spo2History[i] != 0 {
						val = int(ex.Spo2History[i])
						break
					}
				}
			}

			ts := item.Timestamp
			if ex.Timestamp != 0 {
				ts = ex.Timestamp
			}

			if val != 0 {
				d := day(ts.Date())
				d.Readings = append(d.Readings, Spo2Reading{
					Time: ts.Time(),
					Spo2: val,
					Auto: ex.IsAuto,
				})
			}

		case "osa_event":
			var ex osaExtra
			_ = json.Unmarshal(extraPayload(item.Extra), &ex)

			ts := item.Timestamp
			if ex.Timestamp != 0 {
				ts = ex.Timestamp
			}

			d := day(ts.Date())
			d.OsaEvents = append(d.OsaEvents, OsaEvent{
				Time:         ts.Time(),
				Spo2Decrease: int(ex.Spo2Decrease),
				Spo2Samples:  intSlice(ex.Spo2),
				HrSamples:    intSlice(ex.Hr),
			})
		}
	}

	var out []Spo2Sample
	for date, d := range days {
		if !dateInRange(date, start, end) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// extraPayload unwraps an extra field, which arrives either as a JSON object
// or as a JSON object encoded inside a string.
func extraPayload(raw json.RawMessage) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		return []byte(s)
	}
	return trimmed
}

func intSlice(vals []flexInt) []int {
	if len(vals) == 0 {
		return nil
	}
	out := make([]int, len(vals))
	for i, v := range vals {
		out[i] = int(v)
	}
	return out
}
