package unsplash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mmcdole/splash/internal/domain"
)

const (
	// DefaultBaseURL is the public API endpoint
	DefaultBaseURL = "https://api.unsplash.com"

	apiVersion = "v1"
	userAgent  = "Splash/1.0"
)

// Options configures a Client
type Options struct {
	BaseURL     string
	AccessKey   string
	Timeout     time.Duration // 0 means no timeout
	MinInterval time.Duration // Minimum spacing between requests, 0 disables limiting
	Burst       int
}

// Client implements domain.PhotoRepository for the Unsplash API
type Client struct {
	baseURL   string
	accessKey string
	http      *resty.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewClient creates a new API client
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	client.SetHeader("User-Agent", userAgent)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:   opts.BaseURL,
		accessKey: opts.AccessKey,
		http:      client,
		limiter:   rate.NewLimiter(limit, burst),
		logger:    logger,
	}
}

// BaseURL returns the API endpoint the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListPhotos returns one page of the editorial photo feed.
// A JSON body that is not an array is treated as an empty page.
func (c *Client) ListPhotos(ctx context.Context, page, perPage int) ([]*domain.Photo, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	body, status, err := c.doRequest(ctx, "/photos", query)
	if err != nil {
		return nil, c.wrap(ctx, page, status, err)
	}

	dtos, err := decodePage(body)
	if err != nil {
		c.logger.Error("failed to decode photo page", "page", page, "error", err, "bodyLen", len(body))
		return nil, &domain.FetchError{Page: page, Status: status, Err: err}
	}
	if dtos == nil {
		c.logger.Warn("photo page is not a list", "page", page, "bodyLen", len(body))
	}

	return MapPhotos(dtos), nil
}

// GetPhoto returns a single photo by ID
func (c *Client) GetPhoto(ctx context.Context, id string) (*domain.Photo, error) {
	if id == "" {
		return nil, domain.ErrPhotoNotFound
	}

	body, status, err := c.doRequest(ctx, "/photos/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, c.wrap(ctx, 0, status, err)
	}

	var dto Photo
	if err := json.Unmarshal(body, &dto); err != nil {
		c.logger.Error("failed to decode photo", "id", id, "error", err)
		return nil, &domain.FetchError{Status: status, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	if dto.ID == "" {
		return nil, &domain.FetchError{Status: status, Err: domain.ErrPhotoNotFound}
	}

	return MapPhoto(dto), nil
}

// FetchImage downloads an image from the CDN. The access key is not sent.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	if imageURL == "" {
		return nil, errors.New("no image URL")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "image/*").
		Get(imageURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("image request failed", "url", imageURL, "error", err)
		return nil, domain.ErrAPIUnreachable
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("image request returned status %d", resp.StatusCode())
	}

	return resp.Body(), nil
}

// doRequest performs an authenticated GET against the API and maps error statuses
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	if c.accessKey == "" {
		return nil, 0, domain.ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	requestID := uuid.NewString()
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("Accept-Version", apiVersion).
		SetHeader("Authorization", "Client-ID "+c.accessKey).
		SetHeader("X-Request-Id", requestID)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}

	c.logger.Debug("api request", "requestId", requestID, "path", path, "query", query.Encode())

	start := time.Now()
	resp, err := req.Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		c.logger.Error("api request failed", "requestId", requestID, "path", path, "error", err)
		return nil, 0, domain.ErrAPIUnreachable
	}

	status := resp.StatusCode()
	remaining := resp.Header().Get("X-Ratelimit-Remaining")
	c.logger.Debug("api response",
		"requestId", requestID,
		"status", status,
		"duration", time.Since(start),
		"rateLimitRemaining", remaining,
	)

	body := resp.Body()
	switch {
	case status == http.StatusUnauthorized:
		return nil, status, domain.ErrUnauthorized
	case status == http.StatusTooManyRequests,
		status == http.StatusForbidden && remaining == "0":
		return nil, status, domain.ErrRateLimited
	case status == http.StatusNotFound:
		return nil, status, domain.ErrPhotoNotFound
	case status < 200 || status > 299:
		c.logger.Error("api request error", "requestId", requestID, "status", status, "body", string(body))
		return nil, status, apiError(status, body)
	}

	return body, status, nil
}

// wrap turns a request error into a FetchError, passing context errors through untouched
func (c *Client) wrap(ctx context.Context, page, status int, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}
	return &domain.FetchError{Page: page, Status: status, Err: err}
}

// apiError builds an error from the API's error body, falling back to the status text
func apiError(status int, body []byte) error {
	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && len(resp.Errors) > 0 {
		return errors.New(strings.Join(resp.Errors, "; "))
	}
	return errors.New(strings.ToLower(http.StatusText(status)))
}

// decodePage decodes a list response. It returns nil, nil when the body is
// valid JSON but not an array.
func decodePage(body []byte) ([]Photo, error) {
	if !json.Valid(body) {
		return nil, errors.New("failed to parse response: invalid JSON")
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil
	}

	var dtos []Photo
	if err := json.Unmarshal(trimmed, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return dtos, nil
}
