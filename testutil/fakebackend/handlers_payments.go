package fakebackend

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tripcart/marketplace"
)

// SignPayment returns the signature a payment gateway would attach to a
// successful payment for orderID.
func (b *Backend) SignPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(b.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (b *Backend) createPayment(c *gin.Context) {
	var in marketplace.CreatePaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Amount <= 0 {
		abort(c, http.StatusBadRequest, "Amount must be positive")
		return
	}
	if in.Currency == "" {
		in.Currency = "INR"
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if in.MatchID != "" {
		if _, ok := b.matches[in.MatchID]; !ok {
			abort(c, http.StatusNotFound, "Match not found")
			return
		}
	}
	id := "order_" + b.newID()
	o := &order{
		PaymentOrder: marketplace.PaymentOrder{
			ID:       id,
			OrderID:  id,
			Amount:   in.Amount,
			Currency: in.Currency,
			Receipt:  in.Receipt,
		},
		matchID: in.MatchID,
		payerID: c.GetString(ctxUserID),
	}
	b.orders[id] = o
	c.JSON(http.StatusCreated, o.PaymentOrder)
}

func (b *Backend) capturePayment(c *gin.Context) {
	var in marketplace.CapturePaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	want := b.SignPayment(in.OrderID, in.PaymentID)
	if !hmac.Equal([]byte(want), []byte(in.Signature)) {
		abort(c, http.StatusBadRequest, "Payment signature verification failed")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[in.OrderID]
	if !ok {
		abort(c, http.StatusNotFound, "Order not found")
		return
	}
	if o.payerID != c.GetString(ctxUserID) {
		abort(c, http.StatusForbidden, "Order belongs to another user")
		return
	}
	if slices.ContainsFunc(b.transactions[o.payerID], func(t marketplace.Transaction) bool { return t.ID == in.PaymentID }) {
		abort(c, http.StatusBadRequest, "Payment already captured")
		return
	}
	b.transactions[o.payerID] = append(b.transactions[o.payerID], marketplace.Transaction{
		ID:        in.PaymentID,
		MatchID:   o.matchID,
		Amount:    o.Amount,
		Currency:  o.Currency,
		Status:    "held",
		CreatedAt: b.now().UTC(),
	})
	b.notifyLocked(o.payerID, marketplace.NotificationPayment, "Payment received",
		"Your payment is held in escrow until delivery.", in.OrderID)
	c.JSON(http.StatusOK, marketplace.StatusResult{Status: "captured", Message: "Payment held in escrow"})
}

// autoRelease releases escrowed payments for a delivered match.
func (b *Backend) autoRelease(c *gin.Context) {
	var in marketplace.AutoReleaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.matches[in.MatchID]
	if !ok {
		abort(c, http.StatusNotFound, "Match not found")
		return
	}
	if m.Status != "delivered" {
		abort(c, http.StatusBadRequest, "Delivery has not been confirmed")
		return
	}
	released := 0
	for uid, txs := range b.transactions {
		for i := range txs {
			if txs[i].MatchID == m.ID && txs[i].Status == "held" {
				txs[i].Status = "released"
				released++
			}
		}
		b.transactions[uid] = txs
	}
	if released == 0 {
		abort(c, http.StatusBadRequest, "No held payment for this match")
		return
	}
	b.notifyLocked(m.TravelerID, marketplace.NotificationPayment, "Payment released",
		"The escrowed payment has been released to you.", m.ID)
	c.JSON(http.StatusOK, marketplace.StatusResult{Status: "released", Message: "Payment released"})
}

func (b *Backend) listTransactions(c *gin.Context) {
	userID := c.Param("userId")
	if userID != c.GetString(ctxUserID) {
		abort(c, http.StatusForbidden, "You can only read your own transactions")
		return
	}
	b.mu.Lock()
	out := slices.Clone(b.transactions[userID])
	b.mu.Unlock()
	if out == nil {
		out = []marketplace.Transaction{}
	}
	c.JSON(http.StatusOK, out)
}
