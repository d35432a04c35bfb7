package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadFile(t *testing.T) {
	s, app := newTestServer(t)
	user := seedTestUser(t, s, "uploader", "Password123")

	t.Run("stores image and returns url", func(t *testing.T) {
		body, contentType := multipartUpload(t, "file", "listing.jpg", []byte("\xff\xd8\xff\xe0fakejpeg"))
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", bearerFor(t, s, user))

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var payload struct {
			URL string `json:"url"`
		}
		decodeBody(t, resp, &payload)
		require.True(t, strings.HasPrefix(payload.URL, "/uploads/"))
		assert.True(t, strings.HasSuffix(payload.URL, ".jpg"))

		stored := filepath.Join(s.config.UploadDir, strings.TrimPrefix(payload.URL, "/uploads/"))
		_, statErr := os.Stat(stored)
		assert.NoError(t, statErr)
	})

	t.Run("rejects unsupported extension", func(t *testing.T) {
		body, contentType := multipartUpload(t, "file", "payload.exe", []byte("MZ"))
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", bearerFor(t, s, user))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing file", func(t *testing.T) {
		body, contentType := multipartUpload(t, "unrelated", "listing.jpg", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", bearerFor(t, s, user))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
