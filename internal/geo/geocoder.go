// Package geo resolves coordinates to human readable place names through the
// OpenStreetMap Nominatim API.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "Emberwords App"
	defaultTimeout   = 10 * time.Second

	// unknownPlaceName is the Dutch placeholder shown when the provider
	// returns no usable address.
	unknownPlaceName = "Onbekende locatie"
)

// ErrLookupFailed indicates the provider returned an unusable response.
var ErrLookupFailed = errors.New("geo: reverse lookup failed")

// Location is a resolved place. Name prefers "city, country", then the first
// two segments of the provider's free-text address, then a placeholder.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Name    string  `json:"name"`
	City    string  `json:"city,omitempty"`
	Country string  `json:"country,omitempty"`
}

// GeocoderConfig configures the Nominatim client. The user agent is required
// by the provider's usage policy; no API key is needed.
type GeocoderConfig struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Geocoder performs reverse geocoding lookups.
type Geocoder struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGeocoder constructs a Geocoder with sane defaults.
func NewGeocoder(cfg GeocoderConfig) *Geocoder {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Geocoder{baseURL: baseURL, userAgent: userAgent, httpClient: httpClient, logger: logger}
}

type nominatimAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	Country      string `json:"country"`
}

type nominatimResponse struct {
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

// Reverse resolves coordinates to a named location. Callers fall back to raw
// coordinates as the display name when an error is returned.
func (g *Geocoder) Reverse(ctx context.Context, lat, lng float64) (Location, error) {
	query := url.Values{}
	query.Set("lat", fmt.Sprintf("%f", lat))
	query.Set("lon", fmt.Sprintf("%f", lng))
	query.Set("format", "json")
	query.Set("accept-language", "nl")

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+query.Encode(), nil)
	if err != nil {
		return Location{}, err
	}
	request.Header.Set("User-Agent", g.userAgent)

	response, err := g.httpClient.Do(request)
	if err != nil {
		g.logger.Warn("reverse geocode request failed", zap.Error(err))
		return Location{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		g.logger.Warn("reverse geocode rejected", zap.Int("status", response.StatusCode))
		return Location{}, fmt.Errorf("%w: status %d", ErrLookupFailed, response.StatusCode)
	}

	var parsed nominatimResponse
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil {
		g.logger.Warn("reverse geocode parse failed", zap.Error(err))
		return Location{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	city := firstNonEmpty(parsed.Address.City, parsed.Address.Town, parsed.Address.Village, parsed.Address.Municipality)
	country := parsed.Address.Country

	name := ""
	switch {
	case city != "" && country != "":
		name = city + ", " + country
	case parsed.DisplayName != "":
		segments := strings.SplitN(parsed.DisplayName, ",", 3)
		if len(segments) > 2 {
			segments = segments[:2]
		}
		name = strings.TrimSpace(strings.Join(segments, ","))
	}
	if name == "" {
		name = unknownPlaceName
	}

	return Location{Lat: lat, Lng: lng, Name: name, City: city, Country: country}, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
