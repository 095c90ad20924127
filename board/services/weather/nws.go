package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultNWSURL is the api.weather.gov root.
const DefaultNWSURL = "https://api.weather.gov"

// NWS reads the latest observation of a National Weather Service station.
// The API rejects requests without a User-Agent.
type NWS struct {
	// URL overrides the full observation endpoint. When empty it is built
	// from BaseURL and Station.
	URL       string
	BaseURL   string
	Station   string
	Client    *http.Client
	UserAgent string
}

type nwsObservation struct {
	Properties struct {
		Timestamp   time.Time `json:"timestamp"`
		Temperature struct {
			UnitCode string   `json:"unitCode"`
			Value    *float64 `json:"value"`
		} `json:"temperature"`
	} `json:"properties"`
}

var errNoTemperature = errors.New("no temperature in observation")

// Endpoint returns the observation URL that Fetch requests.
func (n *NWS) Endpoint() string {
	if n.URL != "" {
		return n.URL
	}
	base := n.BaseURL
	if base == "" {
		base = DefaultNWSURL
	}
	return strings.TrimRight(base, "/") + "/stations/" + n.Station + "/observations/latest"
}

func (n *NWS) Fetch(ctx context.Context) (Reading, error) {
	url := n.Endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Reading{}, fmt.Errorf("nws: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json")
	ua := n.UserAgent
	if ua == "" {
		ua = "transitboard"
	}
	req.Header.Set("User-Agent", ua)

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Reading{}, fmt.Errorf("nws: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return Reading{}, fmt.Errorf("nws: %s: http status %s", url, resp.Status)
	}

	var obs nwsObservation
	if err := json.NewDecoder(resp.Body).Decode(&obs); err != nil {
		return Reading{}, fmt.Errorf("nws: decode: %w", err)
	}
	t := obs.Properties.Temperature
	if t.Value == nil {
		return Reading{}, fmt.Errorf("nws: %s: %w", url, errNoTemperature)
	}
	c := *t.Value
	if strings.HasSuffix(t.UnitCode, "degF") {
		c = (c - 32) * 5 / 9
	}
	return Reading{Celsius: c, ObservedAt: obs.Properties.Timestamp, Valid: true}, nil
}
