package marketplace

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/kbukum/tripcart/apiclient"
)

// AggregateCacheTTL is used for rarely changing aggregates such as
// suggested travelers and location suggestions.
const AggregateCacheTTL = 10 * time.Minute

// Client groups the resource clients. All of them share one executor,
// so they share its cookie jar and response cache.
type Client struct {
	exec *apiclient.Executor

	Auth          *AuthClient
	Requests      *ShoppingRequestClient
	Itineraries   *ItineraryClient
	Matches       *MatchClient
	Payments      *PaymentClient
	Notifications *NotificationClient
	KYC           *KYCClient
	Disputes      *DisputeClient
	Admin         *AdminClient
	Analytics     *AnalyticsClient
	Locations     *LocationClient
}

// New creates the resource clients on top of exec.
func New(exec *apiclient.Executor) *Client {
	r := resource{exec: exec}
	return &Client{
		exec:          exec,
		Auth:          &AuthClient{r},
		Requests:      &ShoppingRequestClient{r},
		Itineraries:   &ItineraryClient{r},
		Matches:       &MatchClient{r},
		Payments:      &PaymentClient{r},
		Notifications: &NotificationClient{r},
		KYC:           &KYCClient{r},
		Disputes:      &DisputeClient{r},
		Admin:         &AdminClient{r},
		Analytics:     &AnalyticsClient{r},
		Locations:     &LocationClient{r},
	}
}

// Executor returns the executor the clients call through.
func (c *Client) Executor() *apiclient.Executor { return c.exec }

type resource struct {
	exec *apiclient.Executor
}

func get[T any](ctx context.Context, r resource, path string, base []apiclient.CallOption, extra []apiclient.CallOption) (T, error) {
	return apiclient.Execute[T](ctx, r.exec, path, append(base, extra...)...)
}

func send[T any](ctx context.Context, r resource, method, path string, body any, extra []apiclient.CallOption) (T, error) {
	opts := []apiclient.CallOption{apiclient.WithMethod(method)}
	if body != nil {
		opts = append(opts, apiclient.WithBody(body))
	}
	return apiclient.Execute[T](ctx, r.exec, path, append(opts, extra...)...)
}

func upload(ctx context.Context, r resource, path string, u Upload, extra []apiclient.CallOption) (*UploadResult, error) {
	opts := []apiclient.CallOption{
		apiclient.WithMethod(http.MethodPost),
		apiclient.WithMultipart(u.body()),
	}
	return apiclient.Execute[*UploadResult](ctx, r.exec, path, append(opts, extra...)...)
}

func seg(s string) string { return url.PathEscape(s) }
