package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ktinsight-be/models"
)

const table = "incidents"

// GatewayError wraps a non-success response from the row store, keeping
// the raw body as detail for diagnosis.
type GatewayError struct {
	Status int
	Detail string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("incidents store returned %d: %s", e.Status, e.Detail)
}

// ErrInvalidStatus rejects review statuses outside approved/rejected
// before they reach the wire. It is caller input, not a store failure.
var ErrInvalidStatus = errors.New("status must be approved or rejected")

// Client performs row operations against the REST interface of the
// incidents table.
type Client struct {
	baseURL     string
	serviceRole string
	http        *http.Client
}

func NewClient(baseURL, serviceRole string) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		serviceRole: serviceRole,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("apikey", c.serviceRole)
	req.Header.Set("Authorization", "Bearer "+c.serviceRole)
}

// InsertResult carries the store-assigned fields of a new row.
type InsertResult struct {
	ID        json.RawMessage `json:"id"`
	CreatedAt string          `json:"created_at"`
}

// Insert persists a report. Status is forced to pending regardless of
// the caller's record; every new report enters the review queue.
func (c *Client) Insert(ctx context.Context, report models.IncidentReport) (*InsertResult, error) {
	row := report.Row()
	row.Status = string(models.StatusPending)

	payload, err := json.Marshal([]models.IncidentRow{row})
	if err != nil {
		return nil, &GatewayError{Detail: err.Error()}
	}

	endpoint := c.baseURL + "/rest/v1/" + table
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &GatewayError{Detail: err.Error()}
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	req.Header.Set("Content-Profile", "public")

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &GatewayError{Status: status, Detail: string(body)}
	}

	var rows []InsertResult
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return nil, &GatewayError{Status: status, Detail: "unexpected representation: " + string(body)}
	}

	log.Info().
		RawJSON("id", rows[0].ID).
		Str("region", report.Region).
		Int("evidence_keys", len(report.EvidenceKeys)).
		Msg("incident recorded")
	return &rows[0], nil
}

// ListRecent returns up to limit rows ordered by report timestamp
// descending, nulls last, optionally filtered by status.
func (c *Client) ListRecent(ctx context.Context, limit int, statusFilter models.IncidentStatus) ([]models.IncidentRow, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "reported_at.desc.nullslast")
	q.Set("limit", strconv.Itoa(limit))
	if statusFilter != "" {
		q.Set("status", "eq."+string(statusFilter))
	}

	endpoint := c.baseURL + "/rest/v1/" + table + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &GatewayError{Detail: err.Error()}
	}
	c.authorize(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Profile", "public")

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &GatewayError{Status: status, Detail: string(body)}
	}

	rows := []models.IncidentRow{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, &GatewayError{Status: status, Detail: err.Error()}
		}
	}
	return rows, nil
}

// SetStatus patches one row's status and returns the updated
// representation. Only the two review outcomes are ever sent.
func (c *Client) SetStatus(ctx context.Context, id string, status models.IncidentStatus) ([]models.IncidentRow, error) {
	if status != models.StatusApproved && status != models.StatusRejected {
		return nil, ErrInvalidStatus
	}

	payload, _ := json.Marshal(map[string]string{"status": string(status)})
	endpoint := c.baseURL + "/rest/v1/" + table + "?id=eq." + url.QueryEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &GatewayError{Detail: err.Error()}
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	req.Header.Set("Content-Profile", "public")

	body, respStatus, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if respStatus < 200 || respStatus >= 300 {
		return nil, &GatewayError{Status: respStatus, Detail: string(body)}
	}

	rows := []models.IncidentRow{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, &GatewayError{Status: respStatus, Detail: err.Error()}
		}
	}
	log.Info().Str("id", id).Str("status", string(status)).Msg("incident reviewed")
	return rows, nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &GatewayError{Detail: err.Error()}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode, nil
}
