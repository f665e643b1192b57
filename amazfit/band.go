package amazfit

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"
)

// DailySummary holds one day's steps, sleep and heart rate as reported by the
// band data endpoint. Heart rate fields are zero when the band recorded no
// value for the day.
type DailySummary struct {
	Date              string          `json:"date"`
	Steps             int             `json:"steps"`
	DistanceMeters    int             `json:"distance_meters"`
	Calories          int             `json:"calories"`
	SleepMinutes      int             `json:"sleep_minutes"`
	DeepSleepMinutes  int             `json:"deep_sleep_minutes"`
	LightSleepMinutes int             `json:"light_sleep_minutes"`
	RemSleepMinutes   int             `json:"rem_sleep_minutes"`
	SleepStart        time.Time       `json:"sleep_start"`
	SleepEnd          time.Time       `json:"sleep_end"`
	RestingHeartRate  int             `json:"resting_heart_rate"`
	MaxHeartRate      int             `json:"max_heart_rate"`
	SleepScore        int             `json:"sleep_score"`
	WakeCount         int             `json:"wake_count"`
	SleepPhases       []SleepPhase    `json:"sleep_phases,omitempty"`
	Activities        []ActivityStage `json:"activities,omitempty"`
}

// SleepPhase is one contiguous stretch of a sleep stage during the night.
type SleepPhase struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"duration_minutes"`
}

// ActivityStage is one contiguous activity segment of the day, as segmented by
// the band itself. Sleep stages also appear here under their own modes.
type ActivityStage struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Mode           int       `json:"mode"`
	Name           string    `json:"name"`
	Steps          int       `json:"steps"`
	DistanceMeters int       `json:"distance_meters"`
	Calories       int       `json:"calories"`
}

// activityModeNames maps the band's activity stage mode codes to readable
// tags. These are a different code space from the workout sport types.
var activityModeNames = map[int]string{
	1:  "slow_walking",
	3:  "fast_walking",
	4:  "light_sleep",
	5:  "deep_sleep",
	6:  "running",
	7:  "normal_activity",
	9:  "cycling",
	11: "rem_sleep",
	80: "outdoor_running",
	81: "walking",
	82: "hiking",
	83: "treadmill",
	84: "cycling",
	85: "stationary_bike",
}

func activityModeName(mode int) string {
	if name, ok := activityModeNames[mode]; ok {
		return name
	}
	return fmt.Sprintf("unknown_%d", mode)
}

// DailyService handles communication with the band data endpoint.
type DailyService struct {
	client *Client
}

// bandEnvelope wraps the band data response. A code other than 1 signals an
// upstream error even on HTTP 200.
type bandEnvelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    []bandEntry `json:"data"`
}

type bandEntry struct {
	DateTime string `json:"date_time"`
	Summary  string `json:"summary"`
}

// bandSummary is the decoded base64 summary blob attached to each band entry.
// All sections are optional; days without a worn band carry none of them.
type bandSummary struct {
	Stp *struct {
		Ttl   int          `json:"ttl"`
		Dis   int          `json:"dis"`
		Cal   int          `json:"cal"`
		Stage []stageEntry `json:"stage"`
	} `json:"stp"`
	Slp *struct {
		Dp    int          `json:"dp"`
		Lt    int          `json:"lt"`
		Dt    int          `json:"dt"` // REM minutes on newer devices
		St    int64        `json:"st"`
		Ed    int64        `json:"ed"`
		Rhr   int          `json:"rhr"`
		Ss    int          `json:"ss"`
		Wc    int          `json:"wc"`
		Stage []stageEntry `json:"stage"`
	} `json:"slp"`
	Hr *struct {
		MaxHr struct {
			Hr int        `json:"hr"`
			Ts unixMillis `json:"ts"`
		} `json:"maxHr"`
	} `json:"hr"`
}

// stageEntry is one segment of the stp.stage or slp.stage arrays. Start and
// stop are minutes from midnight of the entry's day.
type stageEntry struct {
	Start int `json:"start"`
	Stop  int `json:"stop"`
	Mode  int `json:"mode"`
	Step  int `json:"step"`
	Dis   int `json:"dis"`
	Cal   int `json:"cal"`
}

// List returns one summary per day with band data in the inclusive range,
// ordered by date ascending.
func (s *DailyService) List(ctx context.Context, start, end time.Time) ([]DailySummary, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	entries, err := s.fetch(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var out []DailySummary
	for _, entry := range entries {
		day, err := parseBandEntry(entry)
		if err != nil {
			return nil, err
		}
		if !dateInRange(day.Date, start, end) {
			continue
		}
		out = append(out, *day)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// fetch returns raw band entries for the range. The request fanout policy
// lives here and only here: one ranged request by default, or one request per
// calendar day when the client was built with WithPerDayRequests.
func (s *DailyService) fetch(ctx context.Context, start, end time.Time) ([]bandEntry, error) {
	if !s.client.perDayRequests {
		return s.fetchRange(ctx, start, end)
	}

	var entries []bandEntry
	last := dayStart(end)
	for day := dayStart(start); !day.After(last); day = day.AddDate(0, 0, 1) {
		batch, err := s.fetchRange(ctx, day, day)
		if err != nil {
			return nil, err
		}
		entries = append(entries, batch...)
	}
	return entries, nil
}

func (s *DailyService) fetchRange(ctx context.Context, start, end time.Time) ([]bandEntry, error) {
	q := url.Values{}
	q.Set("query_type", "summary")
	q.Set("device_type", "ios_phone")
	q.Set("userid", s.client.userID)
	q.Set("from_date", dayStart(start).Format(dateLayout))
	q.Set("to_date", dayStart(end).Format(dateLayout))

	u := s.client.bandBaseURL + "/v1/data/band_data.json?" + q.Encode()

	var envelope bandEnvelope
	if err := s.client.getJSON(ctx, "band_data", u, &envelope); err != nil {
		return nil, err
	}
	if envelope.Code != 1 {
		return nil, &APIError{Code: envelope.Code, Message: envelope.Message, URL: u}
	}
	return envelope.Data, nil
}

// parseBandEntry turns a raw band entry into a daily summary. Entries without
// a summary blob (band not worn) yield a record carrying only the date.
func parseBandEntry(entry bandEntry) (*DailySummary, error) {
	if entry.DateTime == "" {
		return nil, &ParseError{Endpoint: "band_data", Field: "date_time"}
	}

	day := &DailySummary{Date: entry.DateTime}
	if entry.Summary == "" {
		return day, nil
	}

	summary, err := decodeBandSummary(entry.Summary)
	if err != nil {
		return nil, &ParseError{Endpoint: "band_data", Field: "summary", Err: err}
	}

	if summary.Stp != nil {
		day.Steps = summary.Stp.Ttl
		day.DistanceMeters = summary.Stp.Dis
		day.Calories = summary.Stp.Cal
	}
	// Stage offsets are minutes from midnight of the entry's day.
	midnight, _ := time.ParseInLocation(dateLayout, entry.DateTime, time.Local)

	if summary.Stp != nil {
		for _, stage := range summary.Stp.Stage {
			day.Activities = append(day.Activities, ActivityStage{
				Start:          stageClock(midnight, stage.Start),
				End:            stageClock(midnight, stage.Stop),
				Mode:           stage.Mode,
				Name:           activityModeName(stage.Mode),
				Steps:          stage.Step,
				DistanceMeters: stage.Dis,
				Calories:       stage.Cal,
			})
		}
	}
	if summary.Slp != nil {
		day.DeepSleepMinutes = summary.Slp.Dp
		day.LightSleepMinutes = summary.Slp.Lt
		day.RemSleepMinutes = summary.Slp.Dt
		day.SleepMinutes = summary.Slp.Dp + summary.Slp.Lt + summary.Slp.Dt
		day.SleepStart = sleepClock(midnight, summary.Slp.St)
		day.SleepEnd = sleepClock(midnight, summary.Slp.Ed)
		day.RestingHeartRate = summary.Slp.Rhr
		day.SleepScore = summary.Slp.Ss
		day.WakeCount = summary.Slp.Wc

		for _, stage := range summary.Slp.Stage {
			day.SleepPhases = append(day.SleepPhases, SleepPhase{
				Start:           stageClock(midnight, stage.Start),
				End:             stageClock(midnight, stage.Stop),
				Type:            sleepPhaseType(stage.Mode),
				DurationMinutes: stage.Stop - stage.Start,
			})
		}
	}
	if summary.Hr != nil {
		day.MaxHeartRate = summary.Hr.MaxHr.Hr
	}

	return day, nil
}

// stageClock converts a minutes-from-midnight stage offset to a wall time.
func stageClock(midnight time.Time, minutes int) time.Time {
	return midnight.Add(time.Duration(minutes) * time.Minute)
}

// sleepClock resolves the slp.st/slp.ed fields, which older firmware reports
// as minutes from midnight and newer firmware as epoch seconds.
func sleepClock(midnight time.Time, v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	if v > 1_000_000_000 {
		return time.Unix(v, 0)
	}
	return midnight.Add(time.Duration(v) * time.Minute)
}

// sleepPhaseType maps a slp.stage mode to its phase tag.
func sleepPhaseType(mode int) string {
	switch mode {
	case 5:
		return "deep"
	case 4:
		return "light"
	case 8, 11:
		return "rem"
	default:
		return "awake"
	}
}

// decodeBandSummary decodes the base64 summary payload, which holds either a
// JSON object or a single-element JSON array wrapping one.
func decodeBandSummary(raw string) (*bandSummary, error) {
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(decoded)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []bandSummary
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return &bandSummary{}, nil
		}
		return &list[0], nil
	}

	var summary bandSummary
	if err := json.Unmarshal(trimmed, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
