package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Fetch retrieves the WidgetConfig for the given widget id from a config
// endpoint. The endpoint is expected to serve JSON at
// <baseURL>/api/widgets/<id>/config.
func Fetch(ctx context.Context, client *http.Client, baseURL, widgetID string) (*WidgetConfig, error) {
	if client == nil {
		client = http.DefaultClient
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/api/widgets/" + url.PathEscape(widgetID) + "/config"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building config request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("config endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// Decode over defaults so omitted fields keep their fallback values.
	cfg := DefaultConfig()
	if err := json.NewDecoder(resp.Body).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}
