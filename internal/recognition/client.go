package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPClient is a Recognizer backed by the server's /api/analyze and
// /api/convert endpoints.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

func (c *HTTPClient) Analyze(ctx context.Context, png []byte, subject string) (AnalysisResult, error) {
	var res AnalysisResult
	q := url.Values{}
	if subject != "" {
		q.Set("subject", subject)
	}
	err := c.post(ctx, "/api/analyze", q, png, &res)
	return res, err
}

func (c *HTTPClient) Convert(ctx context.Context, png []byte) (ConversionResult, error) {
	var res ConversionResult
	err := c.post(ctx, "/api/convert", nil, png, &res)
	return res, err
}

func (c *HTTPClient) post(ctx context.Context, path string, q url.Values, png []byte, out any) error {
	if len(png) == 0 {
		return ErrNoImage
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(png))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "image/png")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("post %s: %s: %s", path, resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
