package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sandevgo/reliefbot/internal/core"
)

const (
	ToolGetLocationInfo = "get_location_info"
	ToolGetNearestPlace = "get_nearest_place"
)

const locationInfoSchema = `
{
  "type": "object",
  "properties": {
    "lat": { "type": "number", "description": "Latitude" },
    "lng": { "type": "number", "description": "Longitude" }
  },
  "required": ["lat", "lng"]
}
`

const nearestPlaceSchema = `
{
  "type": "object",
  "properties": {
    "origin_lat": { "type": "number", "description": "Origin latitude, usually the user's coordinates" },
    "origin_lng": { "type": "number", "description": "Origin longitude" },
    "destinations": {
      "type": "array",
      "items": { "type": "string" },
      "description": "Candidate destinations as lat,lng strings or addresses"
    }
  },
  "required": ["origin_lat", "origin_lng", "destinations"]
}
`

// Location wraps the Google Maps Geocoding and Distance Matrix APIs.
type Location struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewLocation(apiKey string) *Location {
	return &Location{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: "https://maps.googleapis.com",
		apiKey:  apiKey,
	}
}

// WithBaseURL overrides the API host, for tests.
func (l *Location) WithBaseURL(baseURL string) *Location {
	l.baseURL = baseURL
	return l
}

func (l *Location) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", l.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", core.ReliefUserAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("maps request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("maps api http %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode maps response: %w", err)
	}
	return nil
}

// GetLocationInfo reverse-geocodes coordinates into a human-readable address.
func (l *Location) GetLocationInfo(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	params := url.Values{}
	params.Set("latlng", fmt.Sprintf("%v,%v", input.Lat, input.Lng))

	var data struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress  string `json:"formatted_address"`
			AddressComponents []struct {
				LongName  string   `json:"long_name"`
				ShortName string   `json:"short_name"`
				Types     []string `json:"types"`
			} `json:"address_components"`
		} `json:"results"`
	}
	if err := l.get(ctx, "/maps/api/geocode/json", params, &data); err != nil {
		return "", err
	}
	if data.Status != "OK" || len(data.Results) == 0 {
		return "", fmt.Errorf("location not found: %s", data.Status)
	}

	result := data.Results[0]
	info := map[string]string{
		"formatted_address": result.FormattedAddress,
	}
	for _, component := range result.AddressComponents {
		for _, t := range component.Types {
			switch t {
			case "locality":
				info["city"] = component.LongName
			case "administrative_area_level_1":
				info["state_province"] = component.LongName
			case "country":
				info["country"] = component.LongName
			case "postal_code":
				info["postal_code"] = component.LongName
			}
		}
	}

	encoded, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("encode location info: %w", err)
	}
	return string(encoded), nil
}

// GetNearestPlace picks the closest destination by driving distance.
func (l *Location) GetNearestPlace(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		OriginLat    float64  `json:"origin_lat"`
		OriginLng    float64  `json:"origin_lng"`
		Destinations []string `json:"destinations"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if len(input.Destinations) == 0 {
		return "", fmt.Errorf("no destinations given")
	}

	params := url.Values{}
	params.Set("origins", fmt.Sprintf("%v,%v", input.OriginLat, input.OriginLng))
	params.Set("destinations", strings.Join(input.Destinations, "|"))
	params.Set("mode", "driving")

	var data struct {
		Status               string   `json:"status"`
		DestinationAddresses []string `json:"destination_addresses"`
		Rows                 []struct {
			Elements []struct {
				Status   string `json:"status"`
				Distance struct {
					Text  string `json:"text"`
					Value int    `json:"value"`
				} `json:"distance"`
				Duration struct {
					Text  string `json:"text"`
					Value int    `json:"value"`
				} `json:"duration"`
			} `json:"elements"`
		} `json:"rows"`
	}
	if err := l.get(ctx, "/maps/api/distancematrix/json", params, &data); err != nil {
		return "", err
	}
	if data.Status != "OK" || len(data.Rows) == 0 || len(data.Rows[0].Elements) == 0 {
		return "", fmt.Errorf("distance matrix failed: %s", data.Status)
	}

	elements := data.Rows[0].Elements
	minIndex := -1
	for i, el := range elements {
		if el.Status != "OK" {
			continue
		}
		if minIndex < 0 || el.Distance.Value < elements[minIndex].Distance.Value {
			minIndex = i
		}
	}
	if minIndex < 0 {
		return "", fmt.Errorf("no reachable destination")
	}

	nearest := map[string]any{
		"destination":      data.DestinationAddresses[minIndex],
		"distance_text":    elements[minIndex].Distance.Text,
		"distance_value_m": elements[minIndex].Distance.Value,
		"duration_text":    elements[minIndex].Duration.Text,
		"duration_value_s": elements[minIndex].Duration.Value,
	}

	encoded, err := json.Marshal(map[string]any{"nearest_place": nearest})
	if err != nil {
		return "", fmt.Errorf("encode nearest place: %w", err)
	}
	return string(encoded), nil
}

func (l *Location) GetDefinitions() map[string]Definition {
	return map[string]Definition{
		ToolGetLocationInfo: {
			Description: "Resolve latitude/longitude coordinates into city, country and address details",
			Schema:      json.RawMessage(locationInfoSchema),
			Handler:     l.GetLocationInfo,
		},
		ToolGetNearestPlace: {
			Description: "Find the nearest destination from the user's coordinates by driving distance",
			Schema:      json.RawMessage(nearestPlaceSchema),
			Handler:     l.GetNearestPlace,
		},
	}
}
