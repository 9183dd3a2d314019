package marketplace

import (
	"context"
	"net/http"

	"github.com/kbukum/tripcart/apiclient"
)

type MatchClient struct{ r resource }

// Create calls POST /matches.
func (c *MatchClient) Create(ctx context.Context, in CreateMatchInput, opts ...apiclient.CallOption) (*Match, error) {
	return send[*Match](ctx, c.r, http.MethodPost, "/matches", in, opts)
}

// AcceptRequest calls POST /accept-request.
func (c *MatchClient) AcceptRequest(ctx context.Context, in AcceptRequestInput, opts ...apiclient.CallOption) (*Match, error) {
	return send[*Match](ctx, c.r, http.MethodPost, "/accept-request", in, opts)
}

// ConfirmDelivery calls POST /confirm-delivery.
func (c *MatchClient) ConfirmDelivery(ctx context.Context, in ConfirmDeliveryInput, opts ...apiclient.CallOption) (*StatusResult, error) {
	return send[*StatusResult](ctx, c.r, http.MethodPost, "/confirm-delivery", in, opts)
}
