package marketplace

import (
	"context"
	"net/http"

	"github.com/kbukum/tripcart/apiclient"
)

// AdminClient covers dispute resolution and KYC review. The backend
// rejects these calls with Forbidden for non-admin users.
type AdminClient struct{ r resource }

// ListDisputes calls GET /admin/disputes.
func (c *AdminClient) ListDisputes(ctx context.Context, opts ...apiclient.CallOption) ([]Dispute, error) {
	return get[[]Dispute](ctx, c.r, "/admin/disputes", nil, opts)
}

// ResolveDispute calls POST /admin/resolve-dispute.
func (c *AdminClient) ResolveDispute(ctx context.Context, in ResolveDisputeInput, opts ...apiclient.CallOption) (*Dispute, error) {
	return send[*Dispute](ctx, c.r, http.MethodPost, "/admin/resolve-dispute", in, opts)
}

// ListPendingKYC calls GET /admin/kyc-pending.
func (c *AdminClient) ListPendingKYC(ctx context.Context, opts ...apiclient.CallOption) ([]KYCSubmission, error) {
	return get[[]KYCSubmission](ctx, c.r, "/admin/kyc-pending", nil, opts)
}

// ReviewKYC calls POST /admin/review-kyc.
func (c *AdminClient) ReviewKYC(ctx context.Context, in ReviewKYCInput, opts ...apiclient.CallOption) (*StatusResult, error) {
	return send[*StatusResult](ctx, c.r, http.MethodPost, "/admin/review-kyc", in, opts)
}
