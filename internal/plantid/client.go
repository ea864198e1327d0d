package plantid

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://plant.id/api/v3/health_assessment"
	defaultTimeout = 30 * time.Second
)

var ErrNoImages = errors.New("plantid: at least one image is required")

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the vendor identify endpoint. It is safe for concurrent
// use; retry and backoff are deliberately left to callers.
type Client struct {
	http *resty.Client
}

func New(config Config) *Client {
	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Api-Key", config.APIKey)

	return &Client{http: httpClient}
}

type IdentifyRequest struct {
	// Images are base64-encoded photo payloads, as sent by the mobile client.
	Images    []string
	Latitude  *float64
	Longitude *float64
}

func (client *Client) Identify(ctx context.Context, request IdentifyRequest) (*Assessment, error) {
	if len(request.Images) == 0 {
		return nil, ErrNoImages
	}

	body := map[string]any{
		"images":         request.Images,
		"similar_images": true,
	}
	if request.Latitude != nil {
		body["latitude"] = *request.Latitude
	}
	if request.Longitude != nil {
		body["longitude"] = *request.Longitude
	}

	response, err := client.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("")
	if err != nil {
		return nil, fmt.Errorf("plantid: identify request: %w", err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("plantid: identify status %d: %s",
			response.StatusCode(), strings.TrimSpace(string(response.Body())))
	}

	assessment, err := DecodeAssessment(response.Body())
	if err != nil {
		return nil, fmt.Errorf("plantid: decode identify response: %w", err)
	}
	return assessment, nil
}
