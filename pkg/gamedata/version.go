package gamedata

import "time"

// Version describes the CDN snapshot the artifacts were built from.
type Version struct {
	Version   string    `json:"version"`
	FetchedAt time.Time `json:"fetchedAt"`
	RunID     string    `json:"runId"`
	Schema    string    `json:"schema"`
}
