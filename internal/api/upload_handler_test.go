package api_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, token, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	body, ct := multipartBody(t, field, filename, contentType, data)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestUploadFile_Success(t *testing.T) {
	srv := newTestServer(t)
	owner := uuid.New()

	resp, body := srv.do(t, uploadRequest(t, tokenFor(t, owner), "file", "card.png", "image/png", []byte("png-bytes")))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	got := decode[map[string]string](t, body)
	assert.Equal(t, "File uploaded successfully", got["message"])
	assert.True(t, strings.HasPrefix(got["path"], owner.String()+"/"), got["path"])
	assert.True(t, strings.HasSuffix(got["path"], ".png"), got["path"])
	assert.Equal(t, "http://storage.test/contact-cards/"+got["path"], got["url"])

	require.Equal(t, 1, srv.store.Len())
	stored := srv.store.Objects[got["path"]]
	assert.Equal(t, "image/png", stored.ContentType)
	assert.Equal(t, []byte("png-bytes"), stored.Body)
}

func TestUploadFile_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.do(t, uploadRequest(t, "", "file", "card.png", "image/png", []byte("png")))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No authorization token provided", errorMessage(t, body))
	assert.Zero(t, srv.store.Len())
}

func TestUploadFile_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		filename    string
		contentType string
		data        []byte
		wantStatus  int
		wantError   string
	}{
		{"missing file", "attachment", "card.png", "image/png", []byte("png"), http.StatusBadRequest, "No file provided"},
		{"not an image", "file", "notes.pdf", "application/pdf", []byte("%PDF"), http.StatusUnsupportedMediaType, "Only image files are allowed"},
		{"too large", "file", "big.jpg", "image/jpeg", bytes.Repeat([]byte{0xff}, 6*1024*1024), http.StatusRequestEntityTooLarge, "File too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			resp, body := srv.do(t, uploadRequest(t, tokenFor(t, uuid.New()), tt.field, tt.filename, tt.contentType, tt.data))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantError, errorMessage(t, body))
			assert.Zero(t, srv.store.Len())
		})
	}
}

func TestUploadFile_StorageError(t *testing.T) {
	srv := newTestServer(t)
	srv.store.Err = errors.New("bucket not found")

	resp, body := srv.do(t, uploadRequest(t, tokenFor(t, uuid.New()), "file", "card.jpg", "image/jpeg", []byte("jpeg")))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Error uploading file", errorMessage(t, body))
	assert.NotContains(t, string(body), "bucket not found")
}
