package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"ktinsight-be/config"
	"ktinsight-be/evidence"
	"ktinsight-be/storage"
)

// UploadEvidence receives a file as the raw request body, classifies it,
// and writes it to the private evidence container.
// Returns: { ok: true, key: "<filename.ext>" }
func UploadEvidence(cfg *config.Config, store *storage.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if len(buf) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}

		cls := evidence.Classify(buf, c.GetHeader("Content-Type"))
		if !evidence.AllowedExt(cls.Ext, cfg.AllowBinaryEvidence) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported file type: %s", cls.Ext)})
			return
		}

		key := evidence.NewKey(cls.Ext)
		if err := store.Put(c.Request.Context(), key, buf, cls.ContentType); err != nil {
			respondStorageError(c, "Upload failed", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "key": key})
	}
}

type signUploadRequest struct {
	Ext string `json:"ext"`
}

// SignUpload issues a signed upload handle for a client-side upload. The
// key is generated server-side and returned alongside the handle so the
// client can reference it in a later report.
func SignUpload(cfg *config.Config, store *storage.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signUploadRequest
		// An empty body is tolerated; the extension then falls back.
		_ = c.ShouldBindJSON(&req)

		ext := evidence.SanitizeExt(req.Ext)
		if !evidence.AllowedExt(ext, cfg.AllowBinaryEvidence) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported file type: %s", ext)})
			return
		}

		key := evidence.NewKey(ext)
		handle, err := store.SignForWrite(c.Request.Context(), key)
		if err != nil {
			respondStorageError(c, "Sign failed", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"ok":              true,
			"key":             key,
			"signedUploadUrl": handle.URL,
			"token":           handle.Token,
		})
	}
}

// RedirectEvidence signs a short-lived read URL for a stored object and
// redirects to it. Legacy keys carrying the container prefix are
// normalized first.
func RedirectEvidence(store *storage.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("key")
		if key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing key"})
			return
		}
		key = evidence.NormalizeKey(key)

		signedURL, err := store.SignForRead(c.Request.Context(), key)
		if err != nil {
			respondStorageError(c, "Sign failed", err)
			return
		}

		c.Redirect(http.StatusFound, signedURL)
	}
}

func respondStorageError(c *gin.Context, msg string, err error) {
	var storeErr *storage.StorageError
	if errors.As(err, &storeErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": msg, "detail": storeErr.Detail})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}
