package amazfit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDailyService_List(t *testing.T) {
	api := newMockAPI(t)
	client := newMockClient(t, api)
	start, end := rangeJan24to25()

	days, err := client.Daily.List(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}

	// The mock returns the days newest first; List must reorder ascending.
	if days[0].Date != "2025-01-24" || days[1].Date != "2025-01-25" {
		t.Errorf("expected ascending dates, got %s, %s", days[0].Date, days[1].Date)
	}

	day1 := days[0]
	if day1.Steps != 8496 {
		t.Errorf("expected 8496 steps, got %d", day1.Steps)
	}
	if day1.DistanceMeters != 6112 {
		t.Errorf("expected 6112 m, got %d", day1.DistanceMeters)
	}
	if day1.SleepMinutes != 95+312+68 {
		t.Errorf("expected %d sleep minutes, got %d", 95+312+68, day1.SleepMinutes)
	}
	if day1.DeepSleepMinutes != 95 || day1.LightSleepMinutes != 312 || day1.RemSleepMinutes != 68 {
		t.Errorf("unexpected sleep breakdown: %+v", day1)
	}
	if day1.RestingHeartRate != 52 || day1.MaxHeartRate != 142 {
		t.Errorf("expected HR 52/142, got %d/%d", day1.RestingHeartRate, day1.MaxHeartRate)
	}
	if day1.SleepScore != 81 || day1.WakeCount != 2 {
		t.Errorf("expected sleep score 81 and wake count 2, got %d and %d", day1.SleepScore, day1.WakeCount)
	}

	// Day two exercises the array-wrapped summary encoding.
	if days[1].Steps != 12034 || days[1].RestingHeartRate != 49 {
		t.Errorf("unexpected day two: %+v", days[1])
	}
}

func TestDailyService_List_SingleDay(t *testing.T) {
	api := newMockAPI(t)
	client := newMockClient(t, api)
	start, _ := rangeJan24to25()

	days, err := client.Daily.List(context.Background(), start, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The mock always returns both days; only the requested one survives.
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if days[0].Date != "2025-01-24" {
		t.Errorf("expected 2025-01-24, got %s", days[0].Date)
	}
}

func TestDailyService_List_InvalidRange(t *testing.T) {
	api := newMockAPI(t)
	client := newMockClient(t, api)
	start, end := rangeJan24to25()

	_, err := client.Daily.List(context.Background(), end, start)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected RangeError, got %T: %v", err, err)
	}
	if hits := api.countPath("/v1/data/band_data.json"); hits != 0 {
		t.Errorf("expected no requests for invalid range, got %d", hits)
	}
}

func TestDailyService_List_PerDayFanout(t *testing.T) {
	api := newMockAPI(t)
	client := newMockClient(t, api, WithPerDayRequests(true))
	start, end := rangeJan24to25()

	if _, err := client.Daily.List(context.Background(), start, end); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reqs := api.pathRequests("/v1/data/band_data.json")
	if len(reqs) != 2 {
		t.Fatalf("expected one request per day, got %d", len(reqs))
	}
	for i, want := range []string{"2025-01-24", "2025-01-25"} {
		q := reqs[i].URL.Query()
		if q.Get("from_date") != want || q.Get("to_date") != want {
			t.Errorf("request %d: expected from_date=to_date=%s, got %s..%s",
				i, want, q.Get("from_date"), q.Get("to_date"))
		}
	}
}

func TestDailyService_List_RangedRequestParams(t *testing.T) {
	api := newMockAPI(t)
	client := newMockClient(t, api)
	start, end := rangeJan24to25()

	if _, err := client.Daily.List(context.Background(), start, end); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reqs := api.pathRequests("/v1/data/band_data.json")
	if len(reqs) != 1 {
		t.Fatalf("expected a single ranged request, got %d", len(reqs))
	}
	q := reqs[0].URL.Query()
	if q.Get("query_type") != "summary" || q.Get("device_type") != "ios_phone" {
		t.Errorf("unexpected query parameters: %v", q)
	}
	if q.Get("from_date") != "2025-01-24" || q.Get("to_date") != "2025-01-25" {
		t.Errorf("expected range 2025-01-24..2025-01-25, got %s..%s",
			q.Get("from_date"), q.Get("to_date"))
	}
}

func TestParseBandEntry_MissingDate(t *testing.T) {
	_, err := parseBandEntry(bandEntry{Summary: summaryDay1})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	if parseErr.Field != "date_time" {
		t.Errorf("expected field date_time, got %q", parseErr.Field)
	}
}

func TestParseBandEntry_StagesAndPhases(t *testing.T) {
	day, err := parseBandEntry(bandEntry{DateTime: "2025-01-24", Summary: summaryWithStages})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// slp.st/ed above 1e9 are epoch seconds.
	if want := time.Date(2025, 1, 23, 23, 0, 0, 0, time.UTC); !day.SleepStart.Equal(want) {
		t.Errorf("expected sleep start %v, got %v", want, day.SleepStart)
	}
	if want := time.Date(2025, 1, 24, 6, 30, 0, 0, time.UTC); !day.SleepEnd.Equal(want) {
		t.Errorf("expected sleep end %v, got %v", want, day.SleepEnd)
	}

	if len(day.SleepPhases) != 4 {
		t.Fatalf("expected 4 sleep phases, got %d", len(day.SleepPhases))
	}
	for i, wantType := range []string{"light", "deep", "rem", "awake"} {
		if day.SleepPhases[i].Type != wantType {
			t.Errorf("phase %d: expected type %s, got %s", i, wantType, day.SleepPhases[i].Type)
		}
	}
	first := day.SleepPhases[0]
	if want := time.Date(2025, 1, 24, 0, 30, 0, 0, time.UTC); !first.Start.Equal(want) {
		t.Errorf("expected first phase start %v, got %v", want, first.Start)
	}
	if first.DurationMinutes != 90 {
		t.Errorf("expected first phase 90 minutes, got %d", first.DurationMinutes)
	}

	if len(day.Activities) != 2 {
		t.Fatalf("expected 2 activity stages, got %d", len(day.Activities))
	}
	walk := day.Activities[0]
	if walk.Mode != 1 || walk.Name != "slow_walking" {
		t.Errorf("unexpected first activity: %+v", walk)
	}
	if want := time.Date(2025, 1, 24, 9, 0, 0, 0, time.UTC); !walk.Start.Equal(want) {
		t.Errorf("expected activity start %v, got %v", want, walk.Start)
	}
	if walk.Steps != 850 || walk.DistanceMeters != 600 || walk.Calories != 25 {
		t.Errorf("unexpected activity metrics: %+v", walk)
	}
	if day.Activities[1].Name != "normal_activity" {
		t.Errorf("expected normal_activity, got %s", day.Activities[1].Name)
	}
}

func TestParseBandEntry_NoSummary(t *testing.T) {
	day, err := parseBandEntry(bandEntry{DateTime: "2025-01-24"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.Date != "2025-01-24" || day.Steps != 0 || day.SleepMinutes != 0 {
		t.Errorf("expected bare record for summaryless day, got %+v", day)
	}
}

func TestDailyService_List_EnvelopeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": -1, "message": "apptoken is invalid", "data": []}`))
	}))
	defer ts.Close()

	client, err := NewClient("tok", "user-123",
		WithBandBaseURL(ts.URL), WithRateLimiting(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start, end := rangeJan24to25()
	_, err = client.Daily.List(context.Background(), start, end)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Code != -1 {
		t.Errorf("expected envelope code -1, got %d", apiErr.Code)
	}
}
