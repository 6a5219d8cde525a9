package model

import (
	"fmt"
	"time"
)

// Source identifies the entry point a message arrived through.
type Source string

// Known message sources.
const (
	SourceApp      Source = "app"
	SourceWebsite  Source = "website"
	SourceDatabase Source = "database"
	SourceTerminal Source = "terminal"
)

// ParseSource validates a source string.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceApp, SourceWebsite, SourceDatabase, SourceTerminal:
		return Source(s), nil
	}
	return "", fmt.Errorf("unknown source: %q", s)
}

// RecordStatus tracks a record through its processing lifecycle.
type RecordStatus string

// Record status constants.
const (
	StatusNew       RecordStatus = "new"
	StatusProcessed RecordStatus = "processed"
	StatusError     RecordStatus = "error"
)

// Record is the persisted unit of work for one inbound message.
// status=processed implies Result is set; status=error implies Error is set.
// Only status=new records are eligible for the background scan.
type Record struct {
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Meta       map[string]any `json:"meta,omitempty"`
	Source     Source         `json:"source"`
	Message    string         `json:"message"`
	Status     RecordStatus   `json:"status"`
	Result     Label          `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
	ID         int64          `json:"id"`
	AfterHours bool           `json:"after_hours"`
}
