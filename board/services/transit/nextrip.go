package transit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultNexTripURL is the Metro Transit NexTrip v2 departures endpoint.
const DefaultNexTripURL = "https://svc.metrotransit.org/nextrip"

// Stop selects the departures of one stop, optionally only those of Route.
type Stop struct {
	ID    int
	Route string
}

// NexTrip fetches departures from the NexTrip v2 API, one request per stop.
type NexTrip struct {
	BaseURL   string
	Stops     []Stop
	Client    *http.Client
	UserAgent string
}

type nextripResponse struct {
	Departures []nextripDeparture `json:"departures"`
}

type nextripDeparture struct {
	Actual               bool   `json:"actual"`
	StopID               int    `json:"stop_id"`
	DepartureTime        int64  `json:"departure_time"`
	Description          string `json:"description"`
	RouteID              string `json:"route_id"`
	RouteShortName       string `json:"route_short_name"`
	DirectionText        string `json:"direction_text"`
	Terminal             string `json:"terminal"`
	ScheduleRelationship string `json:"schedule_relationship"`
}

// Fetch requests every stop in order. The first failing stop fails the call.
func (n *NexTrip) Fetch(ctx context.Context) ([]Arrival, error) {
	var out []Arrival
	for _, stop := range n.Stops {
		arrivals, err := n.fetchStop(ctx, stop)
		if err != nil {
			return nil, err
		}
		out = append(out, arrivals...)
	}
	return out, nil
}

func (n *NexTrip) fetchStop(ctx context.Context, stop Stop) ([]Arrival, error) {
	base := n.BaseURL
	if base == "" {
		base = DefaultNexTripURL
	}
	url := strings.TrimRight(base, "/") + "/" + strconv.Itoa(stop.ID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("nextrip: stop %d: %w", stop.ID, err)
	}
	req.Header.Set("Accept", "application/json")
	if n.UserAgent != "" {
		req.Header.Set("User-Agent", n.UserAgent)
	}

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nextrip: stop %d: %w", stop.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("nextrip: stop %d: http status %s", stop.ID, resp.Status)
	}

	var body nextripResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("nextrip: stop %d: decode: %w", stop.ID, err)
	}

	arrivals := make([]Arrival, 0, len(body.Departures))
	for _, d := range body.Departures {
		if stop.Route != "" && d.RouteID != stop.Route {
			continue
		}
		if d.ScheduleRelationship != "" && d.ScheduleRelationship != "Scheduled" {
			continue
		}
		if d.DepartureTime <= 0 {
			continue
		}
		id := d.StopID
		if id == 0 {
			id = stop.ID
		}
		arrivals = append(arrivals, Arrival{
			Route:       d.RouteShortName + d.Terminal,
			Heading:     ParseHeading(d.DirectionText),
			Destination: d.Description,
			Stop:        id,
			Scheduled:   time.Unix(d.DepartureTime, 0),
			Realtime:    d.Actual,
		})
	}
	return arrivals, nil
}
