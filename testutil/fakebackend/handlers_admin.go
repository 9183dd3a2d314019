package fakebackend

import (
	"net/http"
	"slices"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tripcart/marketplace"
)

func (b *Backend) listDisputes(c *gin.Context) {
	b.mu.Lock()
	out := slices.Clone(b.disputes)
	b.mu.Unlock()
	if out == nil {
		out = []marketplace.Dispute{}
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) resolveDispute(c *gin.Context) {
	var in marketplace.ResolveDisputeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.disputes, func(d marketplace.Dispute) bool { return d.ID == in.DisputeID })
	if i < 0 {
		abort(c, http.StatusNotFound, "Dispute not found")
		return
	}
	d := &b.disputes[i]
	if d.Status == "resolved" {
		abort(c, http.StatusBadRequest, "Dispute already resolved")
		return
	}
	d.Status = "resolved"
	d.Resolution = in.Resolution
	b.notifyLocked(d.RaisedBy, marketplace.NotificationSystem, "Dispute resolved", in.Resolution, d.ID)
	c.JSON(http.StatusOK, *d)
}

func (b *Backend) listPendingKYC(c *gin.Context) {
	b.mu.Lock()
	out := []marketplace.KYCSubmission{}
	for _, u := range b.users {
		if u.profile.KYCStatus == "pending" {
			out = append(out, marketplace.KYCSubmission{
				UserID:      u.profile.UserID,
				FullName:    u.profile.FullName,
				DocumentURL: u.profile.KYCDocumentURL,
				Status:      u.profile.KYCStatus,
			})
		}
	}
	b.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	c.JSON(http.StatusOK, out)
}

func (b *Backend) reviewKYC(c *gin.Context) {
	var in marketplace.ReviewKYCInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[in.UserID]
	if !ok || u.profile.KYCStatus != "pending" {
		abort(c, http.StatusNotFound, "No pending KYC for this user")
		return
	}
	status, title := "rejected", "KYC rejected"
	if in.Approved {
		status, title = "approved", "KYC approved"
	}
	u.profile.KYCStatus = status
	msg := in.Note
	if msg == "" {
		msg = "Your KYC document was " + status + "."
	}
	b.notifyLocked(in.UserID, marketplace.NotificationSystem, title, msg, "")
	c.JSON(http.StatusOK, marketplace.StatusResult{Status: status, Message: title})
}
