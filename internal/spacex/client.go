package spacex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"mission-control/internal/launch"
)

// DefaultURL is the public SpaceX v4 launch query endpoint.
const DefaultURL = "https://api.spacexdata.com/v4/launches/query"

type populate struct {
	Path   string         `json:"path"`
	Select map[string]int `json:"select"`
}

type queryOptions struct {
	Pagination bool       `json:"pagination"`
	Populate   []populate `json:"populate"`
}

type queryRequest struct {
	Query   map[string]any `json:"query"`
	Options queryOptions   `json:"options"`
}

// launchQuery asks for every launch with rocket names and payload customers
// populated.
var launchQuery = queryRequest{
	Query: map[string]any{},
	Options: queryOptions{
		Pagination: false,
		Populate: []populate{
			{Path: "rocket", Select: map[string]int{"name": 1}},
			{Path: "payloads", Select: map[string]int{"customers": 1}},
		},
	},
}

type launchDoc struct {
	FlightNumber int    `json:"flight_number"`
	Name         string `json:"name"`
	DateLocal    string `json:"date_local"`
	Upcoming     bool   `json:"upcoming"`
	Success      *bool  `json:"success"`
	Rocket       struct {
		Name string `json:"name"`
	} `json:"rocket"`
	Payloads []struct {
		Customers []string `json:"customers"`
	} `json:"payloads"`
}

type queryResponse struct {
	Docs []launchDoc `json:"docs"`
}

// Client downloads historical launches. It satisfies launch.Feed.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) FetchLaunches(ctx context.Context) ([]launch.Launch, error) {
	logger := c.logger.With("component", "spacex_client", "operation", "fetch_launches")
	logger.Debug("Requesting launch history", "url", c.url)

	body, err := json.Marshal(launchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to encode launch query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build launch query: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Failed to request launch history", "error", err)
		return nil, fmt.Errorf("failed to request launch history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("SpaceX API returned error status",
			"status_code", resp.StatusCode,
			"status", resp.Status)
		return nil, fmt.Errorf("SpaceX API returned status %d", resp.StatusCode)
	}

	var payload queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Error("Failed to decode launch history", "error", err)
		return nil, fmt.Errorf("failed to decode launch history: %w", err)
	}

	launches := make([]launch.Launch, 0, len(payload.Docs))
	for _, doc := range payload.Docs {
		l, err := doc.toLaunch()
		if err != nil {
			logger.Warn("Skipping launch with unreadable date",
				"flight_number", doc.FlightNumber,
				"error", err)
			continue
		}
		launches = append(launches, l)
	}

	logger.Debug("Launch history downloaded", "count", len(launches))
	return launches, nil
}

func (d launchDoc) toLaunch() (launch.Launch, error) {
	date, err := time.Parse(time.RFC3339, d.DateLocal)
	if err != nil {
		return launch.Launch{}, err
	}

	customers := []string{}
	for _, payload := range d.Payloads {
		customers = append(customers, payload.Customers...)
	}

	return launch.Launch{
		FlightNumber: d.FlightNumber,
		Mission:      d.Name,
		Rocket:       d.Rocket.Name,
		LaunchDate:   date.UTC(),
		Customers:    customers,
		Upcoming:     d.Upcoming,
		// unknown outcomes count as failures
		Success: d.Success != nil && *d.Success,
	}, nil
}
