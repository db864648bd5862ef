package tiles

import (
	"context"
	"fmt"
	"image"
	_ "image/png"
	"net/http"
	"time"
)

// DefaultTileServer is the standard OSM raster tile endpoint.
const DefaultTileServer = "https://tile.openstreetmap.org"

// Client defines the interface for fetching map tiles
type Client interface {
	// FetchTile retrieves and decodes a single tile image
	FetchTile(ctx context.Context, t Tile) (image.Image, error)
}

// HTTPClient implements Client against a {z}/{x}/{y}.png tile server
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a tile client for the given server base URL.
// An empty baseURL selects the default OSM server.
func NewHTTPClient(baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultTileServer
	}
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchTile retrieves one tile over HTTP and decodes it.
func (c *HTTPClient) FetchTile(ctx context.Context, t Tile) (image.Image, error) {
	requestURL := fmt.Sprintf("%s/%d/%d/%d.png", c.baseURL, t.Zoom, t.X, t.Y)

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// OSM tile usage policy requires an identifying user agent.
	req.Header.Set("User-Agent", "ContraVento/1.0 (route map)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tile %d/%d/%d: %w", t.Zoom, t.X, t.Y, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tile server returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tile: %w", err)
	}
	return img, nil
}
