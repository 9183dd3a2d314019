package marketplace

import (
	"context"
	"net/http"

	"github.com/kbukum/tripcart/apiclient"
)

// ShoppingRequestClient covers shopping requests and their proofs.
type ShoppingRequestClient struct{ r resource }

// List calls GET /shopping-requests.
func (c *ShoppingRequestClient) List(ctx context.Context, opts ...apiclient.CallOption) ([]ShoppingRequest, error) {
	return get[[]ShoppingRequest](ctx, c.r, "/shopping-requests", nil, opts)
}

// Create calls POST /shopping-requests.
func (c *ShoppingRequestClient) Create(ctx context.Context, in ShoppingRequest, opts ...apiclient.CallOption) (*ShoppingRequest, error) {
	return send[*ShoppingRequest](ctx, c.r, http.MethodPost, "/shopping-requests", in, opts)
}

// ListByUser calls GET /my-shopping-requests/{userId}.
func (c *ShoppingRequestClient) ListByUser(ctx context.Context, userID string, opts ...apiclient.CallOption) ([]ShoppingRequest, error) {
	return get[[]ShoppingRequest](ctx, c.r, "/my-shopping-requests/"+seg(userID), nil, opts)
}

// UploadPurchaseProof calls POST /shopping-requests/{id}/purchase-proof.
func (c *ShoppingRequestClient) UploadPurchaseProof(ctx context.Context, requestID string, u Upload, opts ...apiclient.CallOption) (*UploadResult, error) {
	return upload(ctx, c.r, "/shopping-requests/"+seg(requestID)+"/purchase-proof",
		u.withDefaults("proof", map[string]string{"request_id": requestID}), opts)
}

// UploadDeliveryProof calls POST /shopping-requests/{id}/delivery-proof.
func (c *ShoppingRequestClient) UploadDeliveryProof(ctx context.Context, requestID string, u Upload, opts ...apiclient.CallOption) (*UploadResult, error) {
	return upload(ctx, c.r, "/shopping-requests/"+seg(requestID)+"/delivery-proof",
		u.withDefaults("proof", map[string]string{"request_id": requestID}), opts)
}
