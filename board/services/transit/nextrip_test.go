package transit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stop1234 = `{
  "stops": [{"stop_id": 1234, "description": "Lake St & Hennepin"}],
  "departures": [
    {"actual": true, "stop_id": 1234, "departure_time": 1700000300, "description": "Uptown",
     "route_id": "21", "route_short_name": "21", "direction_text": "WB", "terminal": "A",
     "schedule_relationship": "Scheduled"},
    {"actual": false, "stop_id": 1234, "departure_time": 1700000600, "description": "Downtown",
     "route_id": "6", "route_short_name": "6", "direction_text": "NB",
     "schedule_relationship": "Skipped"},
    {"actual": false, "stop_id": 1234, "departure_time": 1700000900, "description": "Midway",
     "route_id": "21", "route_short_name": "21", "direction_text": "EB",
     "schedule_relationship": "Scheduled"}
  ]
}`

func TestNexTripFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path != "/nextrip/1234" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(stop1234))
	}))
	defer srv.Close()

	src := &NexTrip{BaseURL: srv.URL + "/nextrip/", Stops: []Stop{{ID: 1234}}, Client: srv.Client(), UserAgent: "transitboard/test"}
	arrivals, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, arrivals, 2)

	assert.Equal(t, "transitboard/test", gotUA)
	assert.Equal(t, Arrival{
		Route:       "21A",
		Heading:     West,
		Destination: "Uptown",
		Stop:        1234,
		Scheduled:   time.Unix(1700000300, 0),
		Realtime:    true,
	}, arrivals[0])
	assert.Equal(t, "21", arrivals[1].Route)
	assert.Equal(t, East, arrivals[1].Heading)
}

func TestNexTripRouteFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(stop1234))
	}))
	defer srv.Close()

	src := &NexTrip{BaseURL: srv.URL, Stops: []Stop{{ID: 1234, Route: "6"}}}
	arrivals, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, arrivals, "route 6 departure is not scheduled")

	src.Stops[0].Route = "21"
	arrivals, err = src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, arrivals, 2)
}

func TestNexTripErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/1":
			_, _ = w.Write([]byte(stop1234))
		case "/2":
			_, _ = w.Write([]byte(`{"departures": [`))
		default:
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	src := &NexTrip{BaseURL: srv.URL, Stops: []Stop{{ID: 1}, {ID: 3}}}
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	src.Stops = []Stop{{ID: 1}, {ID: 2}}
	_, err = src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestParseHeading(t *testing.T) {
	cases := map[string]Heading{
		"NB":        North,
		"Eastbound": East,
		" sb ":      South,
		"WB":        West,
		"":          HeadingUnknown,
		"LOOP":      HeadingUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseHeading(in), in)
	}
	assert.Equal(t, '↑', North.Arrow())
	assert.Equal(t, rune(0), HeadingUnknown.Arrow())
	assert.Equal(t, "WB", West.String())
}
