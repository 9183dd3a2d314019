package marketplace

import (
	"context"
	"net/http"

	"github.com/kbukum/tripcart/apiclient"
)

// AuthClient covers signup, login, OAuth and the user profile.
type AuthClient struct{ r resource }

// Signup calls POST /signup.
func (c *AuthClient) Signup(ctx context.Context, in SignupInput, opts ...apiclient.CallOption) (*AuthResult, error) {
	return send[*AuthResult](ctx, c.r, http.MethodPost, "/signup", in, opts)
}

// Login calls POST /login. On success the backend sets the session cookie.
func (c *AuthClient) Login(ctx context.Context, in LoginInput, opts ...apiclient.CallOption) (*AuthResult, error) {
	return send[*AuthResult](ctx, c.r, http.MethodPost, "/login", in, opts)
}

// OAuthURL asks the backend for the provider redirect URL.
func (c *AuthClient) OAuthURL(ctx context.Context, provider OAuthProvider, opts ...apiclient.CallOption) (string, error) {
	resp, err := get[oauthURLResponse](ctx, c.r, "/auth/"+seg(string(provider)),
		[]apiclient.CallOption{apiclient.WithoutCache()}, opts)
	if err != nil {
		return "", err
	}
	return resp.AuthURL, nil
}

// GoogleAuthURL calls GET /auth/google.
func (c *AuthClient) GoogleAuthURL(ctx context.Context, opts ...apiclient.CallOption) (string, error) {
	return c.OAuthURL(ctx, ProviderGoogle, opts...)
}

// FacebookAuthURL calls GET /auth/facebook.
func (c *AuthClient) FacebookAuthURL(ctx context.Context, opts ...apiclient.CallOption) (string, error) {
	return c.OAuthURL(ctx, ProviderFacebook, opts...)
}

// GetProfile calls GET /user-profile/{id}.
func (c *AuthClient) GetProfile(ctx context.Context, userID string, opts ...apiclient.CallOption) (*Profile, error) {
	return get[*Profile](ctx, c.r, "/user-profile/"+seg(userID), nil, opts)
}

// UpdateProfile calls PUT /user-profile/{id}.
func (c *AuthClient) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate, opts ...apiclient.CallOption) (*Profile, error) {
	return send[*Profile](ctx, c.r, http.MethodPut, "/user-profile/"+seg(userID), in, opts)
}

// UploadAvatar calls POST /user-profile/{id}/avatar with the image in
// the "avatar" field.
func (c *AuthClient) UploadAvatar(ctx context.Context, userID string, u Upload, opts ...apiclient.CallOption) (*UploadResult, error) {
	return upload(ctx, c.r, "/user-profile/"+seg(userID)+"/avatar", u.withDefaults("avatar", nil), opts)
}
