package geocode

import (
	"context"
	"errors"
	"fmt"
	"location-tracker-service/internal/domain"
	"location-tracker-service/internal/platform/httpx"
	"location-tracker-service/internal/platform/obs"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

const DefaultBaseURL = "https://maps.googleapis.com"

// ErrAreaNotFound is returned when the response lacks the components
// the area name is built from.
var ErrAreaNotFound = errors.New("area name not present in geocode response")

// Fetcher is the HTTP collaborator used to reach the geocoding endpoint.
type Fetcher interface {
	Get(ctx context.Context, url string, timeout httpx.Timeout) ([]byte, error)
}

// GoogleGeocoder implements ports.AreaResolver using the Google Geocoding API.
// It is safe for concurrent use.
type GoogleGeocoder struct {
	fetcher Fetcher
	baseURL string
}

func NewGoogleGeocoder(fetcher Fetcher, baseURL string) (*GoogleGeocoder, error) {
	if fetcher == nil {
		return nil, errors.New("google geocoder: fetcher is nil")
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &GoogleGeocoder{fetcher: fetcher, baseURL: baseURL}, nil
}

// RequestURL builds the reverse geocoding URL for c.
func (g *GoogleGeocoder) RequestURL(c domain.Coordinates, apiKey string) string {
	return fmt.Sprintf(
		"%s/maps/api/geocode/json?latlng=%s,%s&key=%s",
		g.baseURL,
		strconv.FormatFloat(c.Latitude(), 'f', -1, 64),
		strconv.FormatFloat(c.Longitude(), 'f', -1, 64),
		url.QueryEscape(apiKey),
	)
}

// ResolveAreaName reverse geocodes c and joins the long names of the third
// and fourth address components of the first result with ", ".
func (g *GoogleGeocoder) ResolveAreaName(
	ctx context.Context,
	c domain.Coordinates,
	apiKey string,
) (_ string, err error) {
	defer obs.Time(ctx, "geocode.google.ResolveAreaName")(&err)

	if strings.TrimSpace(apiKey) == "" {
		return "", errors.New("resolve area name: api key is empty")
	}

	body, err := g.fetcher.Get(ctx, g.RequestURL(c, apiKey), httpx.Normal)
	if err != nil {
		return "", fmt.Errorf("resolve area name %s: %w", c, err)
	}

	var decoded googleResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("resolve area name %s: decode geocode response: %w", c, err)
	}

	name, err := areaName(&decoded)
	if err != nil {
		return "", fmt.Errorf("resolve area name %s: status=%q: %w", c, decoded.Status, err)
	}

	return name, nil
}

func areaName(resp *googleResponse) (string, error) {
	if len(resp.Results) == 0 {
		return "", ErrAreaNotFound
	}

	components := resp.Results[0].AddressComponents
	if len(components) < 4 {
		return "", ErrAreaNotFound
	}

	return components[2].LongName + ", " + components[3].LongName, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrAreaNotFound)
}
