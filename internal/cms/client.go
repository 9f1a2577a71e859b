// Package cms talks to the source CMS over HTTP: it fetches the raw
// content-type, component and locale definitions and probes the server
// version.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cmsgen/cmsgen/internal/codegen"
	"github.com/cmsgen/cmsgen/internal/schema"
)

// TransportError is a non-success response from one of the required schema
// endpoints. It carries the status and body for user-facing reporting.
type TransportError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s responded with status %d: %s", e.Endpoint, e.Status, truncate(e.Body, 200))
}

// Client fetches schema information from one CMS instance.
type Client struct {
	baseURL string
	prefix  string
	token   string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a client for the given instance. token may be empty for
// unauthenticated instances; prefix is the API path prefix (usually "/api").
func NewClient(baseURL, token, prefix string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  prefix,
		token:   token,
		http:    http.DefaultClient,
		logger:  logger.With().Str("component", "cms-client").Logger(),
	}
}

// FetchSchema retrieves the raw schema. The content-types and components
// endpoints are required and fail the run on a non-success status; the
// locale endpoint soft-fails to "localization disabled".
func (c *Client) FetchSchema(ctx context.Context) (schema.Raw, error) {
	var raw schema.Raw

	var contentTypes struct {
		Data []schema.RawContentType `json:"data"`
	}
	if err := c.getJSON(ctx, c.prefix+"/content-type-builder/content-types", &contentTypes); err != nil {
		return raw, fmt.Errorf("fetch content types: %w", err)
	}
	raw.ContentTypes = contentTypes.Data

	var components struct {
		Data []schema.RawComponent `json:"data"`
	}
	if err := c.getJSON(ctx, c.prefix+"/content-type-builder/components", &components); err != nil {
		return raw, fmt.Errorf("fetch components: %w", err)
	}
	raw.Components = components.Data

	var locales []schema.RawLocale
	if err := c.getJSON(ctx, c.prefix+"/i18n/locales", &locales); err != nil {
		c.logger.Debug().Err(err).Msg("locale endpoint unavailable, treating localization as disabled")
	} else {
		raw.Locales = locales
	}

	c.logger.Info().
		Int("contentTypes", len(raw.ContentTypes)).
		Int("components", len(raw.Components)).
		Int("locales", len(raw.Locales)).
		Msg("fetched schema")
	return raw, nil
}

// DetectVersion probes the instance for its major version. It is
// best-effort: a false second result means "trust the configuration".
func (c *Client) DetectVersion(ctx context.Context) (codegen.Version, bool) {
	var init struct {
		Data struct {
			Version string `json:"version"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, "/admin/init", &init); err != nil {
		c.logger.Debug().Err(err).Msg("version probe failed")
		return "", false
	}
	switch {
	case strings.HasPrefix(init.Data.Version, "4."):
		return codegen.V4, true
	case strings.HasPrefix(init.Data.Version, "5."):
		return codegen.V5, true
	}
	return "", false
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &TransportError{Endpoint: path, Status: res.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
