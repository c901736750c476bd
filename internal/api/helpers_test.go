package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"contacts-service/internal/api"
	"contacts-service/internal/config"
	"contacts-service/internal/jwt"
	"contacts-service/internal/repository/repositorytest"
	"contacts-service/internal/s3/s3test"
	"contacts-service/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testServer struct {
	app   *fiber.App
	cfg   *config.Config
	repo  *repositorytest.MemoryContactRepository
	store *s3test.MemoryStore
}

func testConfig() *config.Config {
	return &config.Config{
		ServiceName:         "contacts-service-test",
		Port:                "0",
		Env:                 config.EnvDevelopment,
		FrontendURL:         "https://contacts.example.com",
		BodyLimit:           10 * 1024 * 1024,
		JWTSecret:           testSecret,
		RateLimitMax:        1000,
		RateLimitExpiration: time.Minute,
	}
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	repo := repositorytest.NewMemoryContactRepository()
	store := s3test.NewMemoryStore()
	verifier := jwt.NewVerifier(cfg.JWTSecret, cfg.JWTAudience)

	app := api.NewApp(cfg)
	api.SetupRoutes(app, cfg, verifier,
		api.NewContactHandler(service.NewContactService(repo, nil)),
		api.NewUploadHandler(service.NewUploadService(store, nil)),
	)

	return &testServer{app: app, cfg: cfg, repo: repo, store: store}
}

func tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := jwt.Sign(testSecret, jwt.Identity{ID: userID, Email: "user@example.com"}, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func (s *testServer) doJSON(t *testing.T, method, path, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return s.do(t, req)
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func errorMessage(t *testing.T, body []byte) string {
	return decode[map[string]interface{}](t, body)["error"].(string)
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

func decodeBody(resp *http.Response, v interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}
