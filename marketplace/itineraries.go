package marketplace

import (
	"context"
	"net/http"

	"github.com/kbukum/tripcart/apiclient"
)

// ItineraryClient covers travel itineraries and traveler suggestions.
type ItineraryClient struct{ r resource }

// Create calls POST /travel-itineraries.
func (c *ItineraryClient) Create(ctx context.Context, in TravelItinerary, opts ...apiclient.CallOption) (*TravelItinerary, error) {
	return send[*TravelItinerary](ctx, c.r, http.MethodPost, "/travel-itineraries", in, opts)
}

// Update calls PATCH /travel-itineraries/{id}.
func (c *ItineraryClient) Update(ctx context.Context, id string, in ItineraryUpdate, opts ...apiclient.CallOption) (*TravelItinerary, error) {
	return send[*TravelItinerary](ctx, c.r, http.MethodPatch, "/travel-itineraries/"+seg(id), in, opts)
}

// Cancel marks an itinerary cancelled.
func (c *ItineraryClient) Cancel(ctx context.Context, id string, opts ...apiclient.CallOption) (*TravelItinerary, error) {
	status := ItineraryCancelled
	return c.Update(ctx, id, ItineraryUpdate{Status: &status}, opts...)
}

// ListByUser calls GET /travel-itineraries/user/{userId}.
func (c *ItineraryClient) ListByUser(ctx context.Context, userID string, opts ...apiclient.CallOption) ([]TravelItinerary, error) {
	resp, err := get[itineraryList](ctx, c.r, "/travel-itineraries/user/"+seg(userID), nil, opts)
	if err != nil {
		return nil, err
	}
	return resp.TravelItineraries, nil
}

// SuggestTravelers calls GET /suggest-travelers/{requestId}. Results are
// cached for AggregateCacheTTL.
func (c *ItineraryClient) SuggestTravelers(ctx context.Context, requestID string, opts ...apiclient.CallOption) ([]Traveler, error) {
	return get[[]Traveler](ctx, c.r, "/suggest-travelers/"+seg(requestID),
		[]apiclient.CallOption{apiclient.WithCacheTTL(AggregateCacheTTL)}, opts)
}
