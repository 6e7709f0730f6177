package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"join/internal/types"
)

// Prediction is a single autocomplete suggestion.
type Prediction struct {
	PlaceID       string `json:"place_id"`
	Description   string `json:"description"`
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

// Place represents a resolved location result.
type Place struct {
	PlaceID  string      `json:"place_id"`
	Name     string      `json:"name"`
	Address  string      `json:"address"`
	Location types.Point `json:"location"`
}

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client  *maps.Client
	country string
}

// NewPlacesService creates a new PlacesService with the given API Key.
// country restricts autocomplete results (ISO 3166-1 alpha-2); empty means worldwide.
func NewPlacesService(apiKey, country string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client, country: country}, nil
}

// Autocomplete returns address predictions for a partial query, biased
// towards near when it is given.
func (s *PlacesService) Autocomplete(ctx context.Context, input string, near *types.Point) ([]Prediction, error) {
	r := &maps.PlaceAutocompleteRequest{
		Input:    input,
		Language: "en",
	}
	if near != nil {
		r.Location = &maps.LatLng{Lat: near.Lat, Lng: near.Lng}
		r.Radius = 50000
	}
	if s.country != "" {
		r.Components = map[maps.Component][]string{maps.ComponentCountry: {s.country}}
	}

	resp, err := s.client.PlaceAutocomplete(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places autocomplete error: %w", err)
	}

	out := make([]Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, Prediction{
			PlaceID:       p.PlaceID,
			Description:   p.Description,
			MainText:      p.StructuredFormatting.MainText,
			SecondaryText: p.StructuredFormatting.SecondaryText,
		})
	}
	return out, nil
}

// Details resolves a place ID to its name, address and coordinates.
func (s *PlacesService) Details(ctx context.Context, placeID string) (Place, error) {
	r := &maps.PlaceDetailsRequest{
		PlaceID:  placeID,
		Language: "en",
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskPlaceID,
			maps.PlaceDetailsFieldMaskName,
			maps.PlaceDetailsFieldMaskFormattedAddress,
			maps.PlaceDetailsFieldMaskGeometryLocation,
		},
	}

	res, err := s.client.PlaceDetails(ctx, r)
	if err != nil {
		return Place{}, fmt.Errorf("places details error: %w", err)
	}

	return Place{
		PlaceID: res.PlaceID,
		Name:    res.Name,
		Address: res.FormattedAddress,
		Location: types.Point{
			Lat: res.Geometry.Location.Lat,
			Lng: res.Geometry.Location.Lng,
		},
	}, nil
}
