package amazfit

import (
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"
)

// All fixture timestamps are UTC instants on 2025-01-24 and 2025-01-25; pin
// the local zone so date derivation is deterministic on any machine.
func TestMain(m *testing.M) {
	time.Local = time.UTC
	os.Exit(m.Run())
}

// Base64-encoded band summary blobs. Day one is a bare JSON object, day two
// the single-element array wrapping the upstream also produces.
const (
	summaryDay1 = "eyJzdHAiOnsidHRsIjo4NDk2LCJkaXMiOjYxMTIsImNhbCI6Mjg2fSwic2xwIjp7ImRwIjo5NSwibHQiOjMxMiwiZHQiOjY4LCJyaHIiOjUyLCJzcyI6ODEsIndjIjoyfSwiaHIiOnsibWF4SHIiOnsiaHIiOjE0MiwidHMiOjE3Mzc3MjcyMDB9fX0="
	summaryDay2 = "W3sic3RwIjp7InR0bCI6MTIwMzQsImRpcyI6ODY3MSwiY2FsIjo0MDJ9LCJzbHAiOnsiZHAiOjg4LCJsdCI6Mjk1LCJkdCI6NzEsInJociI6NDksInNzIjo4NCwid2MiOjF9LCJociI6eyJtYXhIciI6eyJociI6MTUxLCJ0cyI6MTczNzgxMzYwMH19fV0="

	// summaryWithStages carries slp.st/ed plus the slp.stage and stp.stage
	// segment arrays.
	summaryWithStages = "eyJzdHAiOnsidHRsIjo4NDk2LCJkaXMiOjYxMTIsImNhbCI6Mjg2LCJzdGFnZSI6W3sic3RhcnQiOjU0MCwic3RvcCI6NTU1LCJtb2RlIjoxLCJzdGVwIjo4NTAsImRpcyI6NjAwLCJjYWwiOjI1fSx7InN0YXJ0Ijo2MDAsInN0b3AiOjYzMCwibW9kZSI6Nywic3RlcCI6MTIwMCwiZGlzIjo5MDAsImNhbCI6NDB9XX0sInNscCI6eyJkcCI6OTUsImx0IjozMTIsImR0Ijo2OCwic3QiOjE3Mzc2NzMyMDAsImVkIjoxNzM3NzAwMjAwLCJyaHIiOjUyLCJzcyI6ODEsIndjIjoyLCJzdGFnZSI6W3sic3RhcnQiOjMwLCJzdG9wIjoxMjAsIm1vZGUiOjR9LHsic3RhcnQiOjEyMCwic3RvcCI6MTgwLCJtb2RlIjo1fSx7InN0YXJ0IjoxODAsInN0b3AiOjIxMCwibW9kZSI6OH0seyJzdGFydCI6MjEwLCJzdG9wIjoyMTUsIm1vZGUiOjd9XX19"
)

// mockAPI is an httptest server emulating the band data, events and workout
// endpoints with literal mock JSON payloads. It records every request so
// tests can assert on fanout and pagination behavior.
type mockAPI struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*http.Request
}

// record stores a copy of the request for later assertions.
func (m *mockAPI) record(r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, r.Clone(r.Context()))
}

// countPath returns how many requests hit the given path.
func (m *mockAPI) countPath(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.requests {
		if r.URL.Path == path {
			n++
		}
	}
	return n
}

// pathRequests returns the recorded requests for a path, in order.
func (m *mockAPI) pathRequests(path string) []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*http.Request
	for _, r := range m.requests {
		if r.URL.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func newMockAPI(t *testing.T) *mockAPI {
	t.Helper()

	api := &mockAPI{}
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/data/band_data.json", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.Header.Get("apptoken"); got != "test-token" {
			t.Errorf("expected apptoken header test-token, got %q", got)
		}
		if got := r.URL.Query().Get("userid"); got != "user-123" {
			t.Errorf("expected userid user-123, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code": 1,
			"message": "success",
			"data": [
				{"date_time": "2025-01-25", "summary": "` + summaryDay2 + `"},
				{"date_time": "2025-01-24", "summary": "` + summaryDay1 + `"}
			]
		}`))
	})

	mux.HandleFunc("/users/user-123/events", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Query().Get("eventType") {
		case "all_day_stress":
			_, _ = w.Write([]byte(`{
				"items": [
					{
						"timestamp": 1737712800000,
						"avgStress": 29, "minStress": 10, "maxStress": 68,
						"relaxProportion": 58, "normalProportion": 26,
						"mediumProportion": 12, "highProportion": 4,
						"data": "[{\"time\":1737712800000,\"value\":30},{\"time\":1737713100000,\"value\":24}]"
					},
					{
						"timestamp": 1737799200000,
						"avgStress": 24, "minStress": 9, "maxStress": 61,
						"relaxProportion": 62, "normalProportion": 24,
						"mediumProportion": 11, "highProportion": 3
					}
				]
			}`))

		case "blood_oxygen":
			if got := r.URL.Query().Get("timeZone"); got != "UTC" {
				t.Errorf("expected timeZone UTC, got %q", got)
			}
			_, _ = w.Write([]byte(`{
				"items": [
					{"timestamp": 1737712800000, "subType": "odi", "odi": 3.2, "odiNum": 4, "score": 85},
					{
						"timestamp": 1737715000000, "subType": "click",
						"extra": "{\"spo2\":97,\"timestamp\":1737715000000,\"isAuto\":true}"
					},
					{
						"timestamp": 1737715600000, "subType": "click", "value": 95,
						"extra": {"isAuto": false}
					},
					{
						"timestamp": 1737716000000, "subType": "osa_event",
						"extra": {"timestamp": 1737716000000, "spo2_decrease": 6, "spo2": [95, 91, 89], "hr": [58, 61]}
					},
					{"timestamp": 1737799200000, "subType": "odi", "odi": 1.1, "odiNum": 1, "score": 92}
				]
			}`))

		case "PaiHealthInfo":
			_, _ = w.Write([]byte(`{
				"items": [
					{
						"timestamp": 1737712800000, "totalPai": 21.4, "dailyPai": 2.1,
						"restHr": 52, "maxHr": 192,
						"lowZoneMinutes": 35, "mediumZoneMinutes": 12, "highZoneMinutes": 3,
						"lowZonePai": 0.8, "mediumZonePai": 0.9, "highZonePai": 0.4
					},
					{
						"timestamp": 1737799200000, "totalPai": 23.0, "dailyPai": 1.6,
						"restHr": 49, "maxHr": 192,
						"lowZoneMinutes": 46, "mediumZoneMinutes": 8, "highZoneMinutes": 0,
						"lowZonePai": 1.2, "mediumZonePai": 0.4, "highZonePai": 0
					}
				]
			}`))

		case "readiness":
			_, _ = w.Write([]byte(`{
				"items": [
					{"timestamp": "1737712800000", "subType": "sleep_score", "rdnsScore": "99"},
					{
						"timestamp": "1737712800000", "subType": "watch_score",
						"rdnsScore": "78", "hrvScore": "65", "hrvBaseline": "51",
						"sleepHRV": "48", "sleepRHR": "52", "rhrBaseline": "54",
						"skinTempCalibrated": "2", "mentScore": "71", "phyScore": "80"
					},
					{"timestamp": "1737799200000", "subType": "watch_score", "rdnsScore": "80"},
					{
						"timestamp": "1737799200000", "subType": "watch_score",
						"rdnsScore": "82", "hrvScore": "255", "sleepHRV": "55",
						"sleepRHR": "49", "skinTempCalibrated": "-3",
						"mentScore": "", "phyScore": "84"
					}
				]
			}`))

		default:
			t.Errorf("unexpected eventType %q", r.URL.Query().Get("eventType"))
			_, _ = w.Write([]byte(`{"items": []}`))
		}
	})

	mux.HandleFunc("/v1/sport/run/history.json", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("stopTrackId") == "" {
			// Newest first: the cycling workout on the 25th plus an old
			// workout outside any test range.
			_, _ = w.Write([]byte(`{
				"code": 1,
				"data": {
					"summary": [
						{
							"trackid": 1737817200, "source": "run.huami.com", "type": 3,
							"end_time": 1737817200, "run_time": 3600,
							"dis": 21000.0, "calorie": 520.0,
							"avg_heart_rate": "138.0", "max_heart_rate": "166.0",
							"VO2_max": -1
						},
						{
							"trackid": "999", "source": "run.huami.com", "type": 2,
							"end_time": 1672560000, "run_time": 1200,
							"dis": 1800.0, "calorie": 95.0
						}
					],
					"next": "1737734400"
				}
			}`))
			return
		}

		_, _ = w.Write([]byte(`{
			"code": 1,
			"data": {
				"summary": [
					{
						"trackid": "1737734400", "source": "run.huami.com", "type": 1,
						"end_time": 1737734400, "run_time": 1800,
						"dis": 5012.5, "calorie": 286.0,
						"avg_heart_rate": "148.0", "max_heart_rate": "172.0", "min_heart_rate": "95.0",
						"avg_pace": 5.98, "total_step": "4820",
						"te": 33, "anaerobic_te": 12, "VO2_max": 47, "exercise_load": 92,
						"heart_range": "300,112;600,132;540,152;270,168;90,178;0,0"
					}
				],
				"next": "-1"
			}
		}`))
	})

	mux.HandleFunc("/v1/sport/run/detail.json", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code": 1,
			"data": {
				"heart_rate": "1,0,120;1,0,135;1,0,150",
				"pace": "0,0,5.5;0,0,6.1"
			}
		}`))
	})

	api.Server = httptest.NewServer(mux)
	t.Cleanup(api.Close)
	return api
}

// newMockClient creates a client wired to the mock API with rate limiting
// disabled.
func newMockClient(t *testing.T, api *mockAPI, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{
		WithBandBaseURL(api.URL),
		WithEventsBaseURL(api.URL),
		WithRateLimiting(false),
		WithTimeZone("UTC"),
	}, opts...)

	client, err := NewClient("test-token", "user-123", opts...)
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

// rangeJan24to25 is the two-day window all fixtures fall into.
func rangeJan24to25() (time.Time, time.Time) {
	start := time.Date(2025, 1, 24, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC)
	return start, end
}
