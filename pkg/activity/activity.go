package activity

import "time"

// MaxEntries is the number of entries kept in the log.
const MaxEntries = 50

type Entry struct {
	Type         string    `json:"type"`
	TechnologyId int64     `json:"technologyId,omitempty"`
	Summary      string    `json:"summary"`
	At           time.Time `json:"at"`
}
