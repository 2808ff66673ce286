package reports

import (
	"strings"
	"time"

	"ktinsight-be/evidence"
	"ktinsight-be/models"
)

// Submission is the union of the historical wire shapes: the multipart
// form, JSON with the legacy single evidence_key, and JSON with the
// plural evidence_keys sequence. Each canonical field accepts either of
// its historical names; the first one present wins.
type Submission struct {
	IncidentDate     string   `json:"incident_date" form:"incident_date"`
	ReportedAt       string   `json:"reported_at" form:"reported_at"`
	Location         string   `json:"location" form:"location"`
	Region           string   `json:"region" form:"region"`
	Details          string   `json:"details" form:"details"`
	Summary          string   `json:"summary" form:"summary"`
	ReportingCountry string   `json:"reporting_country" form:"reporting_country"`
	ReporterName     string   `json:"reporter_name" form:"reporter_name"`
	Phone            string   `json:"phone" form:"phone"`
	Category         string   `json:"category" form:"category"`
	EvidenceKey      string   `json:"evidence_key" form:"evidence_key"`
	EvidenceKeys     []string `json:"evidence_keys" form:"evidence_keys"`
}

// MissingFieldError names the first required field found blank, in the
// fixed order {incident_date, location, reporting_country, details}.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Field
}

// InvalidDateError is distinct from a missing field: the date was
// present but could not be parsed.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return "invalid incident date: " + e.Value
}

// MergedEvidenceKeys reconciles the two key fields: the legacy single
// key is upgraded to a one-element sequence, and any legacy container
// prefix is stripped.
func (s Submission) MergedEvidenceKeys() []string {
	keys := s.EvidenceKeys
	if len(keys) == 0 && strings.TrimSpace(s.EvidenceKey) != "" {
		keys = []string{s.EvidenceKey}
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = evidence.NormalizeKey(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Normalize reconciles a submission into the canonical record. The
// evidence composition check runs first and short-circuits; required
// fields are then checked in fixed order.
func Normalize(s Submission) (*models.IncidentReport, error) {
	keys := s.MergedEvidenceKeys()
	if err := evidence.ValidatePolicy(keys); err != nil {
		return nil, err
	}

	date := firstNonBlank(s.IncidentDate, s.ReportedAt)
	region := firstNonBlank(s.Location, s.Region)
	summary := firstNonBlank(s.Details, s.Summary)
	country := strings.TrimSpace(s.ReportingCountry)

	required := []struct {
		name  string
		value string
	}{
		{"incident_date", date},
		{"location", region},
		{"reporting_country", country},
		{"details", summary},
	}
	for _, f := range required {
		if f.value == "" {
			return nil, &MissingFieldError{Field: f.name}
		}
	}

	reportedAt, err := parseIncidentDate(date)
	if err != nil {
		return nil, err
	}

	category := strings.TrimSpace(s.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	return &models.IncidentReport{
		ReportedAt:   reportedAt,
		Region:       region,
		Summary:      summary,
		Category:     category,
		Contact:      buildContact(s.ReporterName, s.Phone, country),
		EvidenceKeys: keys,
		Status:       models.StatusPending,
	}, nil
}

// parseIncidentDate anchors date-only input to noon UTC so no timezone
// offset can shift the reported day. Full timestamps pass through.
func parseIncidentDate(v string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", v); err == nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, &InvalidDateError{Value: v}
}

// buildContact returns nil only when every sub-field is blank; blank
// sub-fields in an otherwise present contact become null, never "".
func buildContact(name, phone, country string) *models.Contact {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	country = strings.TrimSpace(country)
	if name == "" && phone == "" && country == "" {
		return nil
	}
	return &models.Contact{
		Name:             nullable(name),
		Phone:            nullable(phone),
		ReportingCountry: nullable(country),
	}
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}
