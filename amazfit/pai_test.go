package amazfit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPaiService_List(t *testing.T) {
	api := newMockAPI(t)
	client := newMockClient(t, api)
	start, end := rangeJan24to25()

	samples, err := client.Pai.List(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}

	day1 := samples[0]
	if day1.Date != "2025-01-24" {
		t.Fatalf("expected first sample 2025-01-24, got %s", day1.Date)
	}
	if day1.TotalPai != 21.4 || day1.DailyPai != 2.1 {
		t.Errorf("expected PAI 21.4/2.1, got %v/%v", day1.TotalPai, day1.DailyPai)
	}
	if day1.RestingHeartRate != 52 || day1.MaxHeartRate != 192 {
		t.Errorf("expected HR 52/192, got %d/%d", day1.RestingHeartRate, day1.MaxHeartRate)
	}
	if day1.LowZoneMinutes != 35 || day1.MediumZoneMinutes != 12 || day1.HighZoneMinutes != 3 {
		t.Errorf("unexpected zone minutes: %+v", day1)
	}
	if day1.LowZonePai != 0.8 || day1.MediumZonePai != 0.9 || day1.HighZonePai != 0.4 {
		t.Errorf("unexpected zone PAI: %+v", day1)
	}

	day2 := samples[1]
	if day2.Date != "2025-01-25" {
		t.Fatalf("expected second sample 2025-01-25, got %s", day2.Date)
	}
	if day2.TotalPai != 23.0 || day2.DailyPai != 1.6 {
		t.Errorf("expected PAI 23.0/1.6, got %v/%v", day2.TotalPai, day2.DailyPai)
	}
	if day2.HighZoneMinutes != 0 || day2.HighZonePai != 0 {
		t.Errorf("expected empty high zone, got %+v", day2)
	}
}

func TestPaiService_List_MissingTotalPai(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"items": [
				{"timestamp": 1737712800000, "dailyPai": 2.1, "restHr": 52}
			]
		}`))
	}))
	defer ts.Close()

	client, _ := NewClient("tok", "user-123",
		WithEventsBaseURL(ts.URL), WithRateLimiting(false))

	start, end := rangeJan24to25()
	_, err := client.Pai.List(context.Background(), start, end)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	if parseErr.Field != "totalPai" {
		t.Errorf("expected field totalPai, got %q", parseErr.Field)
	}
}
