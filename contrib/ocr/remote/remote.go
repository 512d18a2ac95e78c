// Package remote implements extract.OCR against an HTTP OCR service such as
// a hosted tesseract endpoint. The service accepts a multipart image upload
// and returns the recognized text as JSON.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Config holds remote OCR configuration
type Config struct {
	Endpoint string
	Language string
}

// Client calls a remote OCR service
type Client struct {
	config *Config
	client *http.Client
}

// New creates a new remote OCR client
func New(config *Config) (*Client, error) {
	if config == nil || config.Endpoint == "" {
		return nil, fmt.Errorf("OCR endpoint not configured")
	}
	if config.Language == "" {
		config.Language = "eng"
	}

	return &Client{
		config: config,
		client: &http.Client{},
	}, nil
}

// ocrResponse represents an OCR service response
type ocrResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// ExtractText implements extract.OCR
func (c *Client) ExtractText(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("image payload is empty")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "document")
	if err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.WriteField("lang", c.config.Language); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.config.Endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OCR service error (status %d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp ocrResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("OCR service error: %s", resp.Error)
	}

	return resp.Text, nil
}
