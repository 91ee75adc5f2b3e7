package domain

import "time"

// Target is one configured city database checked every cycle.
type Target struct {
	Name   string // display name, e.g. the city
	DB     string // database name substituted into the DSN template
	Server string // label of the server hosting the database
}

// StaleAlert is the payload delivered to notification channels.
type StaleAlert struct {
	Target     Target    `json:"target"`
	Message    string    `json:"message"`
	DetectedAt time.Time `json:"detected_at"`
}
