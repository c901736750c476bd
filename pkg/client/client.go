// Package client is the Go client for the contacts API together with the
// session and dashboard state a UI builds on.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultBaseURL = "http://localhost:3030/api"

// BaseURLFromEnv returns CONTACTS_API_URL or DefaultBaseURL.
func BaseURLFromEnv() string {
	if v := os.Getenv("CONTACTS_API_URL"); v != "" {
		return v
	}
	return DefaultBaseURL
}

type Contact struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	Nombre         string  `json:"nombre"`
	Apellido       string  `json:"apellido"`
	Email          *string `json:"email"`
	Telefono       *string `json:"telefono"`
	Empresa        *string `json:"empresa"`
	Cargo          *string `json:"cargo"`
	Direccion      *string `json:"direccion"`
	Notas          *string `json:"notas"`
	FotoTarjetaURL *string `json:"foto_tarjeta_url"`
	CreatedAt      string  `json:"created_at"`
}

// ContactInput is the contact form. Every field is sent, blank ones included.
type ContactInput struct {
	Nombre         string `json:"nombre"`
	Apellido       string `json:"apellido"`
	Email          string `json:"email"`
	Telefono       string `json:"telefono"`
	Empresa        string `json:"empresa"`
	Cargo          string `json:"cargo"`
	Direccion      string `json:"direccion"`
	Notas          string `json:"notas"`
	FotoTarjetaURL string `json:"foto_tarjeta_url"`
}

// InputFromContact prefills the form with an existing contact.
func InputFromContact(c Contact) ContactInput {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return ContactInput{
		Nombre:         c.Nombre,
		Apellido:       c.Apellido,
		Email:          deref(c.Email),
		Telefono:       deref(c.Telefono),
		Empresa:        deref(c.Empresa),
		Cargo:          deref(c.Cargo),
		Direccion:      deref(c.Direccion),
		Notas:          deref(c.Notas),
		FotoTarjetaURL: deref(c.FotoTarjetaURL),
	}
}

type UploadResult struct {
	Message string `json:"message"`
	URL     string `json:"url"`
	Path    string `json:"path"`
}

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("contacts api: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   SessionProvider
}

func New(baseURL string, sessions SessionProvider) *Client {
	return NewWithHTTPClient(baseURL, sessions, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
}

func NewWithHTTPClient(baseURL string, sessions SessionProvider, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		sessions:   sessions,
	}
}

func (c *Client) ListContacts(ctx context.Context) ([]Contact, error) {
	var contacts []Contact
	if err := c.doJSON(ctx, http.MethodGet, "/contacts", nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (c *Client) GetContact(ctx context.Context, id string) (*Contact, error) {
	var contact Contact
	if err := c.doJSON(ctx, http.MethodGet, "/contacts/"+url.PathEscape(id), nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (c *Client) CreateContact(ctx context.Context, input ContactInput) (*Contact, error) {
	var contact Contact
	if err := c.doJSON(ctx, http.MethodPost, "/contacts", input, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (c *Client) UpdateContact(ctx context.Context, id string, input ContactInput) (*Contact, error) {
	var contact Contact
	if err := c.doJSON(ctx, http.MethodPut, "/contacts/"+url.PathEscape(id), input, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/contacts/"+url.PathEscape(id), nil, nil)
}

// UploadImage sends r as the "file" field of a multipart form.
func (c *Client) UploadImage(ctx context.Context, filename, contentType string, r io.Reader) (*UploadResult, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var result UploadResult
	if err := c.do(ctx, http.MethodPost, "/upload", body, w.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	if payload == nil {
		return c.do(ctx, method, path, nil, "", out)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, bytes.NewReader(b), "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.sessions != nil {
		session, err := c.sessions.Session(ctx)
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		if session != nil && session.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+session.AccessToken)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}

	return apiErr
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
