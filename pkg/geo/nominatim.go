package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

const defaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

// NominatimClient geocodes against a Nominatim-compatible search endpoint,
// restricted to one country and a single best result.
type NominatimClient struct {
	baseURL     string
	countryCode string
	userAgent   string
	httpClient  *http.Client
}

func NewNominatimClient(baseURL, countryCode string) *NominatimClient {
	if baseURL == "" {
		baseURL = defaultNominatimBaseURL
	}
	return &NominatimClient{
		baseURL:     baseURL,
		countryCode: countryCode,
		userAgent:   "buzzmap-geocoder/1.0",
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *NominatimClient) Geocode(ctx context.Context, address string) (*Point, error) {
	params := url.Values{
		"q":      {address},
		"format": {"geojson"},
		"limit":  {"1"},
	}
	if c.countryCode != "" {
		params.Set("countrycodes", c.countryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	// Nominatim's usage policy requires an identifying agent.
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode %q: unexpected status %d", address, resp.StatusCode)
	}

	var fc struct {
		Features []struct {
			Geometry struct {
				Coordinates []json.Number `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("geocode %q: decode: %w", address, err)
	}

	if len(fc.Features) == 0 {
		return nil, nil
	}

	coords := fc.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return nil, fmt.Errorf("geocode %q: malformed geometry", address)
	}

	// GeoJSON points are [lng, lat]; swap into the internal convention.
	lng, err := decimal.NewFromString(coords[0].String())
	if err != nil {
		return nil, fmt.Errorf("geocode %q: bad longitude: %w", address, err)
	}
	lat, err := decimal.NewFromString(coords[1].String())
	if err != nil {
		return nil, fmt.Errorf("geocode %q: bad latitude: %w", address, err)
	}

	return &Point{Lat: lat, Lng: lng}, nil
}
