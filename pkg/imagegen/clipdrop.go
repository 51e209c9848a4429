package imagegen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const defaultBaseURL = "https://clipdrop-api.co"

// ClipdropClient calls the ClipDrop text-to-image endpoint. A successful
// call returns the raw PNG bytes.
type ClipdropClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClipdropClient(apiKey string) *ClipdropClient {
	return &ClipdropClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// WithBaseURL overrides the API host, used in tests.
func (c *ClipdropClient) WithBaseURL(baseURL string) *ClipdropClient {
	c.baseURL = baseURL
	return c
}

// GenerateFromPrompt sends the prompt as a multipart form and returns the
// binary image payload.
func (c *ClipdropClient) GenerateFromPrompt(ctx context.Context, prompt string) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("prompt", prompt); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/text-to-image/v1", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clipdrop request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("clipdrop response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clipdrop returned status %d: %s", resp.StatusCode, string(data))
	}

	return data, nil
}
