package models

import (
	"encoding/json"
	"time"
)

// IncidentStatus enum
type IncidentStatus string

const (
	StatusPending  IncidentStatus = "pending"
	StatusApproved IncidentStatus = "approved"
	StatusRejected IncidentStatus = "rejected"
)

// DefaultCategory is assigned when a submission carries no category.
const DefaultCategory = "attack"

// isoMillis matches the timestamp serialization the incidents table has
// always received (millisecond precision, Z suffix for UTC).
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Contact is the optional reporter contact payload. Blank sub-fields are
// marshalled as null, never as an empty string.
type Contact struct {
	Name             *string `json:"name"`
	Phone            *string `json:"phone"`
	ReportingCountry *string `json:"reporting_country"`
}

// IncidentReport is the canonical normalized record. It never carries raw
// evidence bytes, only keys into the evidence store.
type IncidentReport struct {
	ReportedAt   time.Time
	Region       string
	Summary      string
	Category     string
	Contact      *Contact
	EvidenceKeys []string
	Status       IncidentStatus
}

// IncidentRow is the column shape of the incidents table. ID is kept as a
// raw JSON value so numeric and string row ids both pass through unchanged.
type IncidentRow struct {
	ID           json.RawMessage `json:"id,omitempty"`
	CreatedAt    string          `json:"created_at,omitempty"`
	ReportedAt   *string         `json:"reported_at"`
	Region       string          `json:"region"`
	Summary      string          `json:"summary"`
	Category     string          `json:"category"`
	Contact      *string         `json:"contact"`
	EvidenceKeys *string         `json:"evidence_keys"`
	Status       string          `json:"status"`
}

// Row converts the canonical record to its persisted column shape. Contact
// and evidence keys become opaque JSON text, null when absent.
func (r IncidentReport) Row() IncidentRow {
	reported := r.ReportedAt.UTC().Format(isoMillis)
	row := IncidentRow{
		ReportedAt: &reported,
		Region:     r.Region,
		Summary:    r.Summary,
		Category:   r.Category,
		Status:     string(r.Status),
	}
	if r.Contact != nil {
		if b, err := json.Marshal(r.Contact); err == nil {
			s := string(b)
			row.Contact = &s
		}
	}
	if len(r.EvidenceKeys) > 0 {
		if b, err := json.Marshal(r.EvidenceKeys); err == nil {
			s := string(b)
			row.EvidenceKeys = &s
		}
	}
	return row
}
