package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ktinsight-be/evidence"
)

// apiPrefix is the storage API version prefix. The provider sometimes
// omits it from signed paths, so the adapter re-adds it (see sign).
const apiPrefix = "/storage/v1"

// Signed-handle lifetimes, in seconds.
const (
	ReadTTLSeconds  = 3600
	WriteTTLSeconds = 600
)

// StorageError carries the provider's raw failure detail so the caller
// can diagnose; there is no retry layer that could swallow it.
type StorageError struct {
	Op     string
	Detail string
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %s", e.Op, e.Detail)
}

// Client is the adapter for the object-storage provider, addressing the
// single private evidence container.
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

// Put writes buf to the evidence container under key. The upsert flag
// allows overwrite, so a key collision is silent rather than an error.
func (c *Client) Put(ctx context.Context, key string, buf []byte, contentType string) error {
	endpoint := fmt.Sprintf("%s%s/object/%s/%s", c.baseURL, apiPrefix, evidence.Container, url.PathEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return &StorageError{Op: "upload", Detail: err.Error()}
	}
	c.authorize(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.http.Do(req)
	if err != nil {
		return &StorageError{Op: "upload", Detail: err.Error()}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StorageError{Op: "upload", Detail: string(body)}
	}

	log.Info().
		Str("key", key).
		Str("content_type", contentType).
		Int("bytes", len(buf)).
		Msg("evidence object stored")
	return nil
}

// SignedHandle is a time-boxed URL (plus the provider's upload token for
// write handles) granting access to one storage object.
type SignedHandle struct {
	URL   string
	Token string
}

// signResponse tolerates both field names the provider has used for the
// signed path.
type signResponse struct {
	SignedURL string `json:"signedURL"`
	URL       string `json:"url"`
	Token     string `json:"token"`
}

// SignForRead returns an absolute signed download URL valid for one hour.
func (c *Client) SignForRead(ctx context.Context, key string) (string, error) {
	h, err := c.sign(ctx, "/object/sign/", key, ReadTTLSeconds)
	if err != nil {
		return "", err
	}
	return h.URL, nil
}

// SignForWrite returns a signed upload URL plus token, valid for ten
// minutes. The caller pairs it with a server-generated key so the client
// can report the key back after uploading.
func (c *Client) SignForWrite(ctx context.Context, key string) (*SignedHandle, error) {
	return c.sign(ctx, "/object/upload/sign/", key, WriteTTLSeconds)
}

func (c *Client) sign(ctx context.Context, signPath, key string, ttlSeconds int) (*SignedHandle, error) {
	endpoint := fmt.Sprintf("%s%s%s%s/%s", c.baseURL, apiPrefix, signPath, evidence.Container, url.PathEscape(key))
	payload, _ := json.Marshal(map[string]int{"expiresIn": ttlSeconds})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &StorageError{Op: "sign", Detail: err.Error()}
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &StorageError{Op: "sign", Detail: err.Error()}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StorageError{Op: "sign", Detail: string(body)}
	}

	var sr signResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, &StorageError{Op: "sign", Detail: err.Error()}
	}
	signed := sr.SignedURL
	if signed == "" {
		signed = sr.URL
	}
	if signed == "" {
		return nil, &StorageError{Op: "sign", Detail: "no signed URL in provider response"}
	}
	// The provider sometimes returns the path without the API version
	// prefix; re-adding must stay idempotent.
	if !strings.HasPrefix(signed, apiPrefix+"/") {
		signed = apiPrefix + signed
	}
	return &SignedHandle{URL: c.baseURL + signed, Token: sr.Token}, nil
}
