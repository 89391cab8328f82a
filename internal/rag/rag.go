// Package rag is the HTTP client for the remote document question-answering service.
package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"document-rag-client/internal/config"
	"document-rag-client/internal/models"
)

const (
	userAgent       = "document-rag-client/1.0"
	maxResponseBody = 4 << 20
)

type Client struct {
	baseURL        string
	sessionID      string
	maxUploadBytes int64
	httpClient     *http.Client
}

type Option func(*Client)

func WithSessionID(id string) Option {
	return func(c *Client) { c.sessionID = id }
}

func NewClient(cfg *config.BackendConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		maxUploadBytes: cfg.MaxUploadBytes,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type UploadResponse struct {
	Chunks  int
	Message string
}

type AskResponse struct {
	Answer  string
	Sources string
}

type uploadBody struct {
	Chunks  *float64 `json:"chunks"`
	Message string   `json:"message"`
}

type askRequest struct {
	Query string `json:"query"`
}

type askBody struct {
	Answer  *string         `json:"answer"`
	Sources json.RawMessage `json:"sources"`
}

// UploadPDF sends the document as multipart field "file" to POST /upload_pdf.
func (c *Client) UploadPDF(ctx context.Context, fileName string, r io.Reader) (*UploadResponse, error) {
	const op = "upload"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(models.UploadFormField, fileName)
	if err != nil {
		return nil, fmt.Errorf("%s: create form file: %w", op, err)
	}
	src := r
	if c.maxUploadBytes > 0 {
		src = io.LimitReader(r, c.maxUploadBytes+1)
	}
	n, err := io.Copy(part, src)
	if err != nil {
		return nil, fmt.Errorf("%s: read %s: %w", op, fileName, err)
	}
	if c.maxUploadBytes > 0 && n > c.maxUploadBytes {
		return nil, fmt.Errorf("%s: %s exceeds the %d byte upload limit", op, fileName, c.maxUploadBytes)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s: close multipart body: %w", op, err)
	}

	data, err := c.do(ctx, op, models.UploadEndpoint, mw.FormDataContentType(), &body)
	if err != nil {
		return nil, err
	}

	var resp uploadBody
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &ServerError{Op: op, Detail: fmt.Sprintf("decode body: %v", err)}
	}
	if resp.Chunks == nil {
		return nil, &ServerError{Op: op, Detail: "response has no chunk count"}
	}
	chunks := *resp.Chunks
	if chunks < 0 || chunks != math.Trunc(chunks) || chunks > math.MaxInt32 {
		return nil, &ServerError{Op: op, Detail: fmt.Sprintf("unusable chunk count %v", chunks)}
	}

	log.Debug().Str("file", fileName).Int64("bytes", n).Int("chunks", int(chunks)).Msg("Uploaded document")
	return &UploadResponse{Chunks: int(chunks), Message: resp.Message}, nil
}

// Ask sends the question as {"query": ...} to POST /ask.
func (c *Client) Ask(ctx context.Context, query string) (*AskResponse, error) {
	const op = "ask"

	payload, err := json.Marshal(askRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", op, err)
	}

	data, err := c.do(ctx, op, models.AskEndpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var resp askBody
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &ServerError{Op: op, Detail: fmt.Sprintf("decode body: %v", err)}
	}
	if resp.Answer == nil {
		return nil, &ServerError{Op: op, Detail: "response has no answer"}
	}
	return &AskResponse{Answer: *resp.Answer, Sources: decodeSources(resp.Sources)}, nil
}

// Health calls GET /health and returns the server's message.
func (c *Client) Health(ctx context.Context) (string, error) {
	const op = "health"

	data, err := c.do(ctx, op, models.HealthEndpoint, "", nil)
	if err != nil {
		return "", err
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", &ServerError{Op: op, Detail: fmt.Sprintf("decode body: %v", err)}
	}
	return resp.Message, nil
}

func (c *Client) do(ctx context.Context, op, path, contentType string, body io.Reader) ([]byte, error) {
	method := http.MethodPost
	if body == nil {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.sessionID != "" {
		req.Header.Set("X-Session-ID", c.sessionID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(data) > maxResponseBody {
		return nil, &ServerError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("response too large (over %d bytes)", maxResponseBody),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{Op: op, StatusCode: resp.StatusCode, Detail: errorDetail(data)}
	}
	return data, nil
}

// errorDetail pulls a readable message out of an error body ({"detail": ...} or {"error": ...}).
func errorDetail(data []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
		Error  json.RawMessage `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		for _, raw := range []json.RawMessage{body.Detail, body.Error} {
			if len(raw) == 0 || string(raw) == "null" {
				continue
			}
			var s string
			if json.Unmarshal(raw, &s) != nil {
				return string(raw)
			}
			if s != "" {
				return s
			}
		}
	}
	text := strings.TrimSpace(string(data))
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	if text == "" {
		return "empty body"
	}
	return text
}

// decodeSources accepts a string or a list of strings; anything else is dropped.
func decodeSources(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "\n")
	}
	log.Debug().RawJSON("sources", raw).Msg("Ignoring sources with unexpected shape")
	return ""
}
