package inference

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/kasetgo/kaset/internal/config"
)

// Client exposes the remote plant detection endpoint.
type Client interface {
	Detect(ctx context.Context, req DetectRequest) (*DetectResult, error)
}

// DetectRequest carries one image for classification.
type DetectRequest struct {
	Filename string
	Image    io.Reader
}

// DetectResult is the top prediction returned by the inference service.
type DetectResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type apiError struct {
	Detail string `json:"detail"`
}

type apiClient struct {
	httpClient *resty.Client
}

// NewClient builds a detection client for the configured inference endpoint.
func NewClient(cfg config.InferenceConfig) Client {
	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(30 * time.Second)

	if cfg.APIKey != "" {
		restyClient.SetHeader("X-API-Key", cfg.APIKey)
	}

	return &apiClient{httpClient: restyClient}
}

// Detect uploads the image as multipart form data and decodes the top
// prediction from the response.
func (c *apiClient) Detect(ctx context.Context, req DetectRequest) (*DetectResult, error) {
	result := new(DetectResult)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("image", req.Filename, req.Image).
		SetResult(result).
		SetError(apiErr).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("inference api call: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := ""
		if apiErr != nil {
			message = apiErr.Detail
		}
		return nil, fmt.Errorf("inference api error: code=%d, message=%s", resp.StatusCode(), message)
	}

	if result.Label == "" {
		return nil, fmt.Errorf("empty prediction from inference service")
	}

	return result, nil
}
