package amazfit

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// workoutTypeNames maps the sport type codes used by the workout history
// endpoint to readable activity tags.
var workoutTypeNames = map[int]string{
	1:   "outdoor_running",
	2:   "walking",
	3:   "cycling",
	4:   "treadmill",
	5:   "indoor_cycling",
	6:   "elliptical",
	7:   "climbing",
	8:   "trail_running",
	9:   "skiing",
	10:  "snowboarding",
	16:  "freestyle",
	17:  "swimming",
	18:  "indoor_swimming",
	19:  "open_water_swimming",
	20:  "yoga",
	21:  "rowing",
	22:  "indoor_rowing",
	64:  "strength_training",
	128: "hiit",
	223: "other",
}

// workoutTypeName returns the tag for a sport type code.
func workoutTypeName(code int) string {
	if name, ok := workoutTypeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("unknown_%d", code)
}

// hrZoneNames are the upstream labels for the six workout heart rate zones.
var hrZoneNames = []string{"Very Light", "Light", "Moderate", "Hard", "Maximum", "Extreme"}

// WorkoutRecord is one tracked workout with its summary metrics and the
// per-track detail fetched from the detail endpoint. Heart rate, training
// effect and load fields are zero when the device did not record them.
type WorkoutRecord struct {
	TrackID         string          `json:"track_id"`
	Type            int             `json:"type"`
	Name            string          `json:"name"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
	DurationSeconds int             `json:"duration_seconds"`
	DistanceMeters  float64         `json:"distance_meters"`
	Calories        float64         `json:"calories"`
	AvgHeartRate    int             `json:"avg_heart_rate"`
	MaxHeartRate    int             `json:"max_heart_rate"`
	MinHeartRate    int             `json:"min_heart_rate"`
	AvgPace         float64         `json:"avg_pace"`
	TotalSteps      int             `json:"total_steps"`
	TrainingEffect  float64         `json:"training_effect"`
	AnaerobicTE     float64         `json:"anaerobic_te"`
	Vo2Max          int             `json:"vo2_max"`
	ExerciseLoad    int             `json:"exercise_load"`
	HeartRateZones  []HeartRateZone `json:"heart_rate_zones,omitempty"`
	Detail          *WorkoutDetail  `json:"detail,omitempty"`
}

// HeartRateZone is the time spent in one of the six workout HR zones.
type HeartRateZone struct {
	Zone         int    `json:"zone"`
	Name         string `json:"name"`
	Seconds      int    `json:"seconds"`
	MaxHeartRate int    `json:"max_heart_rate"`
}

// WorkoutDetail carries the per-track sample series from the detail endpoint.
type WorkoutDetail struct {
	TrackID   string    `json:"track_id"`
	Source    string    `json:"source"`
	HeartRate []int     `json:"heart_rate,omitempty"`
	Pace      []float64 `json:"pace,omitempty"`
}

// WorkoutService handles communication with the workout history and detail
// endpoints.
type WorkoutService struct {
	client *Client
}

type sportEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Summary []workoutItem `json:"summary"`
		Next    flexString    `json:"next"`
	} `json:"data"`
}

type workoutItem struct {
	TrackID      flexString `json:"trackid"`
	Source       flexString `json:"source"`
	Type         flexInt    `json:"type"`
	EndTime      unixMillis `json:"end_time"`
	RunTime      flexInt    `json:"run_time"`
	Dis          flexFloat  `json:"dis"`
	Calorie      flexFloat  `json:"calorie"`
	AvgHeartRate flexFloat  `json:"avg_heart_rate"`
	MaxHeartRate flexFloat  `json:"max_heart_rate"`
	MinHeartRate flexFloat  `json:"min_heart_rate"`
	AvgPace      flexFloat  `json:"avg_pace"`
	TotalStep    flexFloat  `json:"total_step"`
	Te           flexFloat  `json:"te"`
	AnaerobicTe  flexFloat  `json:"anaerobic_te"`
	Vo2Max       flexFloat  `json:"VO2_max"`
	ExerciseLoad flexFloat  `json:"exercise_load"`
	HeartRange   string     `json:"heart_range"`
}

type detailEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		HeartRate string `json:"heart_rate"`
		Pace      string `json:"pace"`
	} `json:"data"`
}

// List returns the workouts whose start time falls in the inclusive range,
// ordered by start time ascending. The history endpoint takes no range
// parameters, so the client walks its trackid cursor and filters locally,
// then fetches the per-track detail for each kept workout.
func (s *WorkoutService) List(ctx context.Context, start, end time.Time) ([]WorkoutRecord, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	items, err := s.history(ctx)
	if err != nil {
		return nil, err
	}

	var out []WorkoutRecord
	for _, item := range items {
		record, err := parseWorkoutItem(item)
		if err != nil {
			return nil, err
		}
		if !dateInRange(record.StartTime.Format(dateLayout), start, end) {
			continue
		}

		detail, err := s.detail(ctx, record.TrackID, string(item.Source))
		if err != nil {
			return nil, err
		}
		record.Detail = detail

		out = append(out, *record)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// history walks the full workout list via the stopTrackId cursor. The
// endpoint returns newest first and repeats the cursor entry, so seen ids are
// skipped.
func (s *WorkoutService) history(ctx context.Context) ([]workoutItem, error) {
	var (
		items       []workoutItem
		seen        = map[string]bool{}
		nextTrackID string
	)

	for {
		q := url.Values{}
		if nextTrackID != "" {
			q.Set("stopTrackId", nextTrackID)
		}
		u := s.client.bandBaseURL + "/v1/sport/run/history.json"
		if enc := q.Encode(); enc != "" {
			u += "?" + enc
		}

		var envelope sportEnvelope
		if err := s.client.getJSON(ctx, "sport/run/history", u, &envelope); err != nil {
			return nil, err
		}
		if envelope.Code != 1 {
			return nil, &APIError{Code: envelope.Code, Message: envelope.Message, URL: u}
		}

		newItems := 0
		for _, item := range envelope.Data.Summary {
			id := string(item.TrackID)
			if id != "" && seen[id] {
				continue
			}
			if id != "" {
				seen[id] = true
			}
			newItems++
			items = append(items, item)
		}

		next := string(envelope.Data.Next)
		if next == "" || next == "0" || next == "-1" || seen[next] || newItems == 0 {
			break
		}
		nextTrackID = next
	}

	return items, nil
}

// detail fetches the per-track sample series for one workout.
func (s *WorkoutService) detail(ctx context.Context, trackID, source string) (*WorkoutDetail, error) {
	q := url.Values{}
	q.Set("trackid", trackID)
	if source != "" {
		q.Set("source", source)
	}
	u := s.client.bandBaseURL + "/v1/sport/run/detail.json?" + q.Encode()

	var envelope detailEnvelope
	if err := s.client.getJSON(ctx, "sport/run/detail", u, &envelope); err != nil {
		return nil, err
	}
	if envelope.Code != 1 {
		return nil, &APIError{Code: envelope.Code, Message: envelope.Message, URL: u}
	}

	return &WorkoutDetail{
		TrackID:   trackID,
		Source:    source,
		HeartRate: parseIntSeries(envelope.Data.HeartRate),
		Pace:      parseFloatSeries(envelope.Data.Pace),
	}, nil
}

// parseWorkoutItem turns one history entry into a record. The start time is
// derived from end_time minus run_time; end_time is required.
func parseWorkoutItem(item workoutItem) (*WorkoutRecord, error) {
	const endpoint = "sport/run/history"

	if item.EndTime == 0 {
		return nil, &ParseError{Endpoint: endpoint, Field: "end_time"}
	}
	if item.TrackID == "" {
		return nil, &ParseError{Endpoint: endpoint, Field: "trackid"}
	}

	duration := int(item.RunTime)
	if duration < 0 {
		duration = 0
	}
	endTime := item.EndTime.Time()

	record := &WorkoutRecord{
		TrackID:         string(item.TrackID),
		Type:            int(item.Type),
		Name:            workoutTypeName(int(item.Type)),
		StartTime:       endTime.Add(-time.Duration(duration) * time.Second),
		EndTime:         endTime,
		DurationSeconds: duration,
		DistanceMeters:  positive(float64(item.Dis)),
		Calories:        positive(float64(item.Calorie)),
		AvgHeartRate:    int(positive(float64(item.AvgHeartRate))),
		MaxHeartRate:    int(positive(float64(item.MaxHeartRate))),
		MinHeartRate:    int(positive(float64(item.MinHeartRate))),
		AvgPace:         positive(float64(item.AvgPace)),
		TotalSteps:      int(positive(float64(item.TotalStep))),
		ExerciseLoad:    int(positive(float64(item.ExerciseLoad))),
		HeartRateZones:  parseHeartRange(item.HeartRange),
	}

	// Training effect comes as an integer holding tenths; -1 marks absence
	// for VO2 max.
	if item.Te > 0 {
		record.TrainingEffect = float64(item.Te) / 10
	}
	if item.AnaerobicTe > 0 {
		record.AnaerobicTE = float64(item.AnaerobicTe) / 10
	}
	if item.Vo2Max > 0 {
		record.Vo2Max = int(item.Vo2Max)
	}

	return record, nil
}

// positive clamps sentinel negatives (the endpoint uses -1 for "no data") to
// zero.
func positive(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// parseHeartRange decodes the heart_range field, a string of
// "seconds,max_hr" pairs joined by semicolons, one pair per zone. Zones with
// no time are skipped.
func parseHeartRange(raw string) []HeartRateZone {
	if raw == "" {
		return nil
	}

	var zones []HeartRateZone
	for i, part := range strings.Split(raw, ";") {
		fields := strings.Split(part, ",")
		if len(fields) != 2 {
			continue
		}
		seconds, err1 := strconv.Atoi(fields[0])
		maxHr, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil || seconds <= 0 {
			continue
		}

		name := fmt.Sprintf("Zone %d", i+1)
		if i < len(hrZoneNames) {
			name = hrZoneNames[i]
		}
		zones = append(zones, HeartRateZone{
			Zone:         i + 1,
			Name:         name,
			Seconds:      seconds,
			MaxHeartRate: maxHr,
		})
	}
	return zones
}

// parseIntSeries decodes a sample series string of semicolon-separated
// tuples, keeping the last comma-separated component of each tuple.
func parseIntSeries(raw string) []int {
	var out []int
	for _, part := range strings.Split(raw, ";") {
		if part == "" {
			continue
		}
		fields := strings.Split(part, ",")
		v, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// parseFloatSeries is parseIntSeries for float-valued series such as pace.
func parseFloatSeries(raw string) []float64 {
	var out []float64
	for _, part := range strings.Split(raw, ";") {
		if part == "" {
			continue
		}
		fields := strings.Split(part, ",")
		v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
