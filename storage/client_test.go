package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPut_Success(t *testing.T) {
	var gotPath, gotUpsert, gotCT, gotAuth string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUpsert = r.Header.Get("x-upsert")
		gotCT = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-role")
	err := c.Put(context.Background(), "123-abc.png", []byte("bytes"), "image/png")

	assert.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/evidence/123-abc.png", gotPath)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, "image/png", gotCT)
	assert.Equal(t, "Bearer service-role", gotAuth)
	assert.Equal(t, []byte("bytes"), gotBody)
}

func TestPut_PropagatesProviderDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"bucket locked"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-role")
	err := c.Put(context.Background(), "k.png", []byte("x"), "image/png")

	var storeErr *StorageError
	assert.ErrorAs(t, err, &storeErr)
	assert.Equal(t, `{"message":"bucket locked"}`, storeErr.Detail)
}

func TestSignForRead_ReAddsMissingPrefix(t *testing.T) {
	var gotPath string
	var gotExpires int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body map[string]int
		json.NewDecoder(r.Body).Decode(&body)
		gotExpires = body["expiresIn"]
		json.NewEncoder(w).Encode(map[string]string{
			"signedURL": "/object/sign/evidence/k.png?token=abc",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-role")
	url, err := c.SignForRead(context.Background(), "k.png")

	assert.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/sign/evidence/k.png", gotPath)
	assert.Equal(t, ReadTTLSeconds, gotExpires)
	assert.Equal(t, srv.URL+"/storage/v1/object/sign/evidence/k.png?token=abc", url)
}

func TestSignForRead_PrefixReAddIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"signedURL": "/storage/v1/object/sign/evidence/k.png?token=abc",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-role")
	url, err := c.SignForRead(context.Background(), "k.png")

	assert.NoError(t, err)
	assert.Equal(t, 1, strings.Count(url, "/storage/v1"))
}

func TestSignForRead_AcceptsUrlFieldVariant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"url": "/object/sign/evidence/k.png?token=abc",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-role")
	url, err := c.SignForRead(context.Background(), "k.png")

	assert.NoError(t, err)
	assert.Contains(t, url, "/storage/v1/object/sign/evidence/k.png")
}

func TestSign_NoURLFieldIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-role")
	_, err := c.SignForRead(context.Background(), "k.png")

	var storeErr *StorageError
	assert.ErrorAs(t, err, &storeErr)
}

func TestSignForWrite_UsesUploadEndpointAndReturnsToken(t *testing.T) {
	var gotPath string
	var gotExpires int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body map[string]int
		json.NewDecoder(r.Body).Decode(&body)
		gotExpires = body["expiresIn"]
		json.NewEncoder(w).Encode(map[string]string{
			"signedURL": "/object/upload/sign/evidence/k.pdf?token=up",
			"token":     "up",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-role")
	handle, err := c.SignForWrite(context.Background(), "k.pdf")

	assert.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/upload/sign/evidence/k.pdf", gotPath)
	assert.Equal(t, WriteTTLSeconds, gotExpires)
	assert.Equal(t, "up", handle.Token)
	assert.Equal(t, srv.URL+"/storage/v1/object/upload/sign/evidence/k.pdf?token=up", handle.URL)
}

func TestSign_ProviderErrorPropagatesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("no such object"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-role")
	_, err := c.SignForRead(context.Background(), "missing.png")

	var storeErr *StorageError
	assert.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "no such object", storeErr.Detail)
}
