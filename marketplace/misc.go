package marketplace

import (
	"context"
	"net/http"

	"github.com/kbukum/tripcart/apiclient"
)

type NotificationClient struct{ r resource }

// ListByUser calls GET /notifications/{userId}.
func (c *NotificationClient) ListByUser(ctx context.Context, userID string, opts ...apiclient.CallOption) ([]Notification, error) {
	return get[[]Notification](ctx, c.r, "/notifications/"+seg(userID), nil, opts)
}

type KYCClient struct{ r resource }

// Upload calls POST /kyc with the document in the "document" field.
func (c *KYCClient) Upload(ctx context.Context, userID string, u Upload, opts ...apiclient.CallOption) (*UploadResult, error) {
	return upload(ctx, c.r, "/kyc", u.withDefaults("document", map[string]string{"user_id": userID}), opts)
}

type DisputeClient struct{ r resource }

// Raise calls POST /raise-dispute.
func (c *DisputeClient) Raise(ctx context.Context, in RaiseDisputeInput, opts ...apiclient.CallOption) (*Dispute, error) {
	return send[*Dispute](ctx, c.r, http.MethodPost, "/raise-dispute", in, opts)
}

type AnalyticsClient struct{ r resource }

// Track calls POST /analytics/track.
func (c *AnalyticsClient) Track(ctx context.Context, ev Event, opts ...apiclient.CallOption) error {
	_, err := send[*StatusResult](ctx, c.r, http.MethodPost, "/analytics/track", ev, opts)
	return err
}

type LocationClient struct{ r resource }

// Suggest calls GET /locations/suggestions?q=query. Results are cached for
// AggregateCacheTTL.
func (c *LocationClient) Suggest(ctx context.Context, query string, opts ...apiclient.CallOption) ([]LocationSuggestion, error) {
	return get[[]LocationSuggestion](ctx, c.r, "/locations/suggestions", []apiclient.CallOption{
		apiclient.WithQuery("q", query),
		apiclient.WithCacheTTL(AggregateCacheTTL),
	}, opts)
}
