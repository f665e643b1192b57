package amazfit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStressService_List(t *testing.T) {
	api := newMockAPI(t)
	client := newMockClient(t, api)
	start, end := rangeJan24to25()

	samples, err := client.Stress.List(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}

	expected := []StressSample{
		{
			Date: "2025-01-24", Avg: 29, Min: 10, Max: 68,
			RelaxedPercent: 58, NormalPercent: 26, MediumPercent: 12, HighPercent: 4,
		},
		{
			Date: "2025-01-25", Avg: 24, Min: 9, Max: 61,
			RelaxedPercent: 62, NormalPercent: 24, MediumPercent: 11, HighPercent: 3,
		},
	}

	for i, want := range expected {
		got := samples[i]
		if got.Date != want.Date || got.Avg != want.Avg || got.Min != want.Min || got.Max != want.Max {
			t.Errorf("sample %d: expected %s avg/min/max %d/%d/%d, got %s %d/%d/%d",
				i, want.Date, want.Avg, want.Min, want.Max, got.Date, got.Avg, got.Min, got.Max)
		}
		if got.RelaxedPercent != want.RelaxedPercent || got.NormalPercent != want.NormalPercent ||
			got.MediumPercent != want.MediumPercent || got.HighPercent != want.HighPercent {
			t.Errorf("sample %d: expected bands %d/%d/%d/%d, got %d/%d/%d/%d",
				i, want.RelaxedPercent, want.NormalPercent, want.MediumPercent, want.HighPercent,
				got.RelaxedPercent, got.NormalPercent, got.MediumPercent, got.HighPercent)
		}
	}

	// The first fixture embeds a reading series in the data field.
	if len(samples[0].Readings) != 2 {
		t.Fatalf("expected 2 readings on day one, got %d", len(samples[0].Readings))
	}
	if samples[0].Readings[0].Value != 30 || samples[0].Readings[1].Value != 24 {
		t.Errorf("unexpected reading values: %+v", samples[0].Readings)
	}
	if len(samples[1].Readings) != 0 {
		t.Errorf("expected no readings on day two, got %d", len(samples[1].Readings))
	}
}

func TestStressService_List_MissingRequiredField(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"items": [
				{
					"timestamp": 1737712800000,
					"minStress": 10, "maxStress": 68,
					"relaxProportion": 58, "normalProportion": 26,
					"mediumProportion": 12, "highProportion": 4
				}
			]
		}`))
	}))
	defer ts.Close()

	client, _ := NewClient("tok", "user-123",
		WithEventsBaseURL(ts.URL), WithRateLimiting(false))

	start, end := rangeJan24to25()
	_, err := client.Stress.List(context.Background(), start, end)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	if parseErr.Field != "avgStress" {
		t.Errorf("expected field avgStress, got %q", parseErr.Field)
	}
	if parseErr.Endpoint != "events/all_day_stress" {
		t.Errorf("expected endpoint events/all_day_stress, got %q", parseErr.Endpoint)
	}
}

func TestStressService_List_InvalidRange(t *testing.T) {
	api := newMockAPI(t)
	client := newMockClient(t, api)
	start, end := rangeJan24to25()

	_, err := client.Stress.List(context.Background(), end, start)
	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected RangeError, got %T: %v", err, err)
	}
	if hits := api.countPath("/users/user-123/events"); hits != 0 {
		t.Errorf("expected no requests for invalid range, got %d", hits)
	}
}
