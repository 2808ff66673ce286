package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"ktinsight-be/config"
	"ktinsight-be/evidence"
	"ktinsight-be/gateway"
	"ktinsight-be/reports"
	"ktinsight-be/storage"
)

// evidenceFileField is the multipart part name carrying the inline file.
const evidenceFileField = "evidence"

// SubmitReport accepts all three historical submission shapes: multipart
// form data with an optional inline file, JSON with the legacy single
// evidence_key, and JSON with the plural evidence_keys sequence. The
// record is only inserted after any inline evidence is durable.
func SubmitReport(cfg *config.Config, store *storage.Client, incidents *gateway.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sub reports.Submission

		if c.ContentType() == "multipart/form-data" {
			if err := c.ShouldBind(&sub); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
				return
			}
			if !attachInlineEvidence(c, cfg, store, &sub) {
				return
			}
		} else {
			if err := c.ShouldBindJSON(&sub); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
				return
			}
		}

		report, err := reports.Normalize(sub)
		if err != nil {
			respondReportError(c, err)
			return
		}

		res, err := incidents.Insert(c.Request.Context(), *report)
		if err != nil {
			respondReportError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"ok":           true,
			"id":           res.ID,
			"createdAt":    res.CreatedAt,
			"evidenceKeys": report.EvidenceKeys,
		})
	}
}

// attachInlineEvidence routes a multipart file part through the
// classifier and the evidence store, appending the resulting key to the
// submission. Returns false after writing an error response.
func attachInlineEvidence(c *gin.Context, cfg *config.Config, store *storage.Client, sub *reports.Submission) bool {
	fileHeader, err := c.FormFile(evidenceFileField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file upload"})
		return false
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file upload"})
		return false
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil || len(buf) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return false
	}

	cls := evidence.Classify(buf, fileHeader.Header.Get("Content-Type"))
	if !evidence.AllowedExt(cls.Ext, cfg.AllowBinaryEvidence) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported file type: %s", cls.Ext)})
		return false
	}

	key := evidence.NewKey(cls.Ext)
	if err := store.Put(c.Request.Context(), key, buf, cls.ContentType); err != nil {
		respondReportError(c, err)
		return false
	}

	sub.EvidenceKeys = append(sub.EvidenceKeys, key)
	return true
}

func respondReportError(c *gin.Context, err error) {
	var missing *reports.MissingFieldError
	var badDate *reports.InvalidDateError
	var policy evidence.PolicyError
	var storeErr *storage.StorageError
	var gwErr *gateway.GatewayError

	switch {
	case errors.As(err, &missing), errors.As(err, &badDate), errors.As(err, &policy):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &storeErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upload failed", "detail": storeErr.Detail})
	case errors.As(err, &gwErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Insert failed", "detail": gwErr.Detail})
	default:
		log.Error().Err(err).Msg("report submission failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}
