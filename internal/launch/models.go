package launch

import "time"

// DefaultFlightNumber is the baseline used when no launch exists yet.
const DefaultFlightNumber = 100

// DefaultCustomers is assigned to every scheduled launch.
var DefaultCustomers = []string{"Zero to Mastery", "NASA"}

// Launch is keyed by FlightNumber. A scheduled launch has Upcoming and
// Success set; aborting clears both and is terminal.
type Launch struct {
	FlightNumber int       `json:"flightNumber"`
	Mission      string    `json:"mission"`
	Rocket       string    `json:"rocket"`
	LaunchDate   time.Time `json:"launchDate"`
	Target       string    `json:"target,omitempty"`
	Customers    []string  `json:"customers"`
	Upcoming     bool      `json:"upcoming"`
	Success      bool      `json:"success"`
}

// Aborted reports whether the launch is in the terminal aborted state.
func (l Launch) Aborted() bool {
	return !l.Upcoming && !l.Success
}

// ScheduleRequest is the client supplied part of a new launch.
type ScheduleRequest struct {
	Mission    string `json:"mission"`
	Rocket     string `json:"rocket"`
	LaunchDate string `json:"launchDate"`
	Target     string `json:"target"`
}
