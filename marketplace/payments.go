package marketplace

import (
	"context"
	"net/http"

	"github.com/kbukum/tripcart/apiclient"
)

// PaymentClient covers escrow payments.
type PaymentClient struct{ r resource }

// Create calls POST /create-payment.
func (c *PaymentClient) Create(ctx context.Context, in CreatePaymentInput, opts ...apiclient.CallOption) (*PaymentOrder, error) {
	return send[*PaymentOrder](ctx, c.r, http.MethodPost, "/create-payment", in, opts)
}

// Capture calls POST /capture-payment.
func (c *PaymentClient) Capture(ctx context.Context, in CapturePaymentInput, opts ...apiclient.CallOption) (*StatusResult, error) {
	return send[*StatusResult](ctx, c.r, http.MethodPost, "/capture-payment", in, opts)
}

// AutoRelease calls POST /auto-release-payment.
func (c *PaymentClient) AutoRelease(ctx context.Context, in AutoReleaseInput, opts ...apiclient.CallOption) (*StatusResult, error) {
	return send[*StatusResult](ctx, c.r, http.MethodPost, "/auto-release-payment", in, opts)
}

// ListTransactions calls GET /user-transactions/{userId}.
func (c *PaymentClient) ListTransactions(ctx context.Context, userID string, opts ...apiclient.CallOption) ([]Transaction, error) {
	return get[[]Transaction](ctx, c.r, "/user-transactions/"+seg(userID), nil, opts)
}
