package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ktinsight-be/gateway"
	"ktinsight-be/models"
)

const (
	publicFeedLimit  = 20
	pendingFeedLimit = 200
)

// ListIncidents returns the most recent reports for the public feed.
func ListIncidents(incidents *gateway.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := incidents.ListRecent(c.Request.Context(), publicFeedLimit, "")
		if err != nil {
			respondGatewayError(c, "Select failed", err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// ListPendingIncidents returns the admin review queue.
func ListPendingIncidents(incidents *gateway.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := incidents.ListRecent(c.Request.Context(), pendingFeedLimit, models.StatusPending)
		if err != nil {
			respondGatewayError(c, "Select failed", err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

type reviewRequest struct {
	ID     json.RawMessage `json:"id"`
	Status string          `json:"status"`
}

// ReviewIncident approves or rejects a pending report by id.
func ReviewIncident(incidents *gateway.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}

		id := rawID(req.ID)
		if id == "" || (req.Status != string(models.StatusApproved) && req.Status != string(models.StatusRejected)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid id/status"})
			return
		}

		rows, err := incidents.SetStatus(c.Request.Context(), id, models.IncidentStatus(req.Status))
		if err != nil {
			if errors.Is(err, gateway.ErrInvalidStatus) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid id/status"})
				return
			}
			respondGatewayError(c, "Update failed", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "updated": rows})
	}
}

// rawID accepts both numeric and string row ids from the wire.
func rawID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if v := strings.TrimSpace(string(raw)); v != "null" {
		return v
	}
	return ""
}

func respondGatewayError(c *gin.Context, msg string, err error) {
	var gwErr *gateway.GatewayError
	if errors.As(err, &gwErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": msg, "detail": gwErr.Detail})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}
