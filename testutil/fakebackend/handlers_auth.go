package fakebackend

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tripcart/marketplace"
)

func (b *Backend) signup(c *gin.Context) {
	var in marketplace.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		abort(c, http.StatusBadRequest, "Full name, email and password are required")
		return
	}
	hash, err := b.hasher.hash(in.Password)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	if _, exists := b.byEmail[in.Email]; exists {
		b.mu.Unlock()
		abort(c, http.StatusBadRequest, "Email already registered")
		return
	}
	id := b.addUserLocked(in.FullName, in.Email, hash, false)
	b.mu.Unlock()

	c.JSON(http.StatusCreated, marketplace.AuthResult{UserID: id, Email: in.Email, Message: "Signup successful"})
}

func (b *Backend) login(c *gin.Context) {
	var in marketplace.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	b.mu.Lock()
	u, ok := b.users[b.byEmail[email]]
	var hash, id string
	if ok {
		hash, id = u.passwordHash, u.profile.UserID
	}
	b.mu.Unlock()

	if !ok || !b.hasher.verify(in.Password, hash) {
		abort(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := b.setSessionCookie(c, id); err != nil {
		abort(c, http.StatusInternalServerError, "Could not create session")
		return
	}
	c.JSON(http.StatusOK, marketplace.AuthResult{UserID: id, Email: email, Message: "Login successful"})
}

func (b *Backend) oauthURL(c *gin.Context) {
	provider := c.Param("provider")
	if provider != string(marketplace.ProviderGoogle) && provider != string(marketplace.ProviderFacebook) {
		abort(c, http.StatusBadRequest, "Unsupported provider")
		return
	}
	b.mu.Lock()
	base := b.baseURL
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"authUrl": base + "/oauth/" + provider + "/callback"})
}

// oauthCallback stands in for the provider round trip: it signs in (or
// registers) the account for the email query value, sets the session
// cookie and returns the URL the browser would be sent back to.
func (b *Backend) oauthCallback(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		abort(c, http.StatusBadRequest, "Email is required")
		return
	}
	returnTo := c.DefaultQuery("return_to", "tripcart://oauth")

	b.mu.Lock()
	id, ok := b.byEmail[email]
	if !ok {
		name := c.DefaultQuery("name", strings.Split(email, "@")[0])
		id = b.addUserLocked(name, email, "", false)
	}
	b.mu.Unlock()

	if err := b.setSessionCookie(c, id); err != nil {
		abort(c, http.StatusInternalServerError, "Could not create session")
		return
	}
	q := url.Values{"auth": {"success"}, "user_id": {id}}
	c.JSON(http.StatusOK, gin.H{"return_url": returnTo + "?" + q.Encode()})
}

func (b *Backend) getProfile(c *gin.Context) {
	id := c.Param("id")
	b.mu.Lock()
	u, ok := b.users[id]
	var p marketplace.Profile
	if ok {
		p = u.profile
	}
	b.mu.Unlock()
	if !ok {
		abort(c, http.StatusNotFound, "User not found")
		return
	}
	if id != c.GetString(ctxUserID) {
		// Other users see the public part of a profile only.
		p = marketplace.Profile{UserID: p.UserID, FullName: p.FullName, Location: p.Location, Bio: p.Bio, Avatar: p.Avatar, Available: p.Available}
	}
	c.JSON(http.StatusOK, p)
}

func (b *Backend) updateProfile(c *gin.Context) {
	id := c.Param("id")
	if id != c.GetString(ctxUserID) {
		abort(c, http.StatusForbidden, "You can only update your own profile")
		return
	}
	var in marketplace.ProfileUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[id]
	if !ok {
		abort(c, http.StatusNotFound, "User not found")
		return
	}
	if in.FullName != nil {
		u.profile.FullName = *in.FullName
	}
	if in.PhoneNumber != nil {
		u.profile.PhoneNumber = *in.PhoneNumber
	}
	if in.Location != nil {
		u.profile.Location = *in.Location
	}
	if in.Bio != nil {
		u.profile.Bio = *in.Bio
	}
	if in.Available != nil {
		u.profile.Available = *in.Available
	}
	c.JSON(http.StatusOK, u.profile)
}

func (b *Backend) uploadAvatar(c *gin.Context) {
	id := c.Param("id")
	if id != c.GetString(ctxUserID) {
		abort(c, http.StatusForbidden, "You can only update your own avatar")
		return
	}
	file, err := c.FormFile("avatar")
	if err != nil {
		abort(c, http.StatusBadRequest, "Avatar file is required")
		return
	}
	loc := "/files/avatars/" + id + "/" + file.Filename
	b.mu.Lock()
	if u, ok := b.users[id]; ok {
		u.profile.Avatar = loc
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, marketplace.UploadResult{URL: loc})
}

func (b *Backend) uploadKYC(c *gin.Context) {
	userID := c.PostForm("user_id")
	if userID != c.GetString(ctxUserID) {
		abort(c, http.StatusForbidden, "You can only submit your own KYC")
		return
	}
	file, err := c.FormFile("document")
	if err != nil {
		abort(c, http.StatusBadRequest, "KYC document is required")
		return
	}
	loc := "/files/kyc/" + userID + "/" + file.Filename
	b.mu.Lock()
	if u, ok := b.users[userID]; ok {
		u.profile.KYCDocumentURL = loc
		u.profile.KYCStatus = "pending"
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, marketplace.UploadResult{URL: loc, Message: "KYC document submitted"})
}
