package fakebackend

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tripcart/marketplace"
)

func (b *Backend) listRequests(c *gin.Context) {
	b.mu.Lock()
	out := slices.Clone(b.requests)
	b.mu.Unlock()
	if out == nil {
		out = []marketplace.ShoppingRequest{}
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) listRequestsByUser(c *gin.Context) {
	userID := c.Param("userId")
	b.mu.Lock()
	out := []marketplace.ShoppingRequest{}
	for _, r := range b.requests {
		if r.ShopperID == userID {
			out = append(out, r)
		}
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (b *Backend) createRequest(c *gin.Context) {
	var in marketplace.ShoppingRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.ShopperID != c.GetString(ctxUserID) {
		abort(c, http.StatusForbidden, "You can only post requests as yourself")
		return
	}
	if strings.TrimSpace(in.ProductName) == "" || in.Price <= 0 {
		abort(c, http.StatusBadRequest, "Product name and a positive price are required")
		return
	}

	b.mu.Lock()
	in.ID = b.newID()
	in.Status = marketplace.RequestOpen
	in.CreatedAt = b.now().UTC()
	b.requests = append(b.requests, in)
	b.mu.Unlock()
	c.JSON(http.StatusCreated, in)
}

func (b *Backend) uploadProof(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		file, err := c.FormFile("proof")
		if err != nil {
			abort(c, http.StatusBadRequest, "Proof file is required")
			return
		}
		if c.PostForm("request_id") != id {
			abort(c, http.StatusBadRequest, "request_id does not match the URL")
			return
		}
		b.mu.Lock()
		found := slices.ContainsFunc(b.requests, func(r marketplace.ShoppingRequest) bool { return r.ID == id })
		b.mu.Unlock()
		if !found {
			abort(c, http.StatusNotFound, "Shopping request not found")
			return
		}
		c.JSON(http.StatusOK, marketplace.UploadResult{
			URL:     "/files/proofs/" + id + "/" + kind + "/" + file.Filename,
			Message: "Proof uploaded",
		})
	}
}

func (b *Backend) createItinerary(c *gin.Context) {
	var in marketplace.TravelItinerary
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	uid := c.GetString(ctxUserID)
	if in.TravelerID != uid {
		abort(c, http.StatusForbidden, "You can only post travel plans as yourself")
		return
	}
	if in.FromLocation == "" || in.ToLocation == "" {
		abort(c, http.StatusBadRequest, "Origin and destination are required")
		return
	}
	if in.ArrivalDate.Before(in.DepartureDate) {
		abort(c, http.StatusBadRequest, "Arrival date must not be before departure date")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if u := b.users[uid]; u == nil || !u.profile.HasKYC() {
		abort(c, http.StatusForbidden, "KYC verification required")
		return
	}
	in.ID = b.newID()
	in.Status = marketplace.ItineraryActive
	in.Available = true
	in.CreatedAt = b.now().UTC()
	b.itineraries = append(b.itineraries, in)
	c.JSON(http.StatusCreated, in)
}

func (b *Backend) updateItinerary(c *gin.Context) {
	var in marketplace.ItineraryUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	id := c.Param("id")

	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.itineraries, func(it marketplace.TravelItinerary) bool { return it.ID == id })
	if i < 0 {
		abort(c, http.StatusNotFound, "Itinerary not found")
		return
	}
	it := &b.itineraries[i]
	if it.TravelerID != c.GetString(ctxUserID) {
		abort(c, http.StatusForbidden, "You can only update your own travel plans")
		return
	}
	if in.Status != nil {
		switch *in.Status {
		case marketplace.ItineraryActive, marketplace.ItineraryCompleted, marketplace.ItineraryCancelled:
			it.Status = *in.Status
		default:
			abort(c, http.StatusBadRequest, "Unknown itinerary status")
			return
		}
		if it.Status != marketplace.ItineraryActive {
			it.Available = false
		}
	}
	if in.Available != nil {
		it.Available = *in.Available
	}
	if in.AvailableSpace != nil {
		it.AvailableSpace = *in.AvailableSpace
	}
	if in.PreferredItems != nil {
		it.PreferredItems = *in.PreferredItems
	}
	c.JSON(http.StatusOK, *it)
}

func (b *Backend) listItinerariesByUser(c *gin.Context) {
	userID := c.Param("userId")
	b.mu.Lock()
	out := []marketplace.TravelItinerary{}
	for _, it := range b.itineraries {
		if it.TravelerID == userID {
			out = append(out, it)
		}
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"travel_itineraries": out})
}

// suggestTravelers ranks active itineraries for a request. Trips leaving
// from the seller's location score higher.
func (b *Backend) suggestTravelers(c *gin.Context) {
	id := c.Param("requestId")
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.requests, func(r marketplace.ShoppingRequest) bool { return r.ID == id })
	if i < 0 {
		abort(c, http.StatusNotFound, "Shopping request not found")
		return
	}
	req := b.requests[i]
	seller := strings.ToLower(req.SellerLocation)

	out := []marketplace.Traveler{}
	for _, it := range b.itineraries {
		if it.Status != marketplace.ItineraryActive || !it.Available || it.TravelerID == req.ShopperID {
			continue
		}
		score := 0.5
		if seller != "" && strings.Contains(strings.ToLower(it.FromLocation), seller) {
			score = 1
		}
		t := marketplace.Traveler{TravelerID: it.TravelerID, Itinerary: it, MatchScore: score}
		if u := b.users[it.TravelerID]; u != nil {
			t.FullName = u.profile.FullName
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b marketplace.Traveler) int {
		switch {
		case a.MatchScore > b.MatchScore:
			return -1
		case a.MatchScore < b.MatchScore:
			return 1
		}
		return a.Itinerary.DepartureDate.Compare(b.Itinerary.DepartureDate)
	})
	c.JSON(http.StatusOK, out)
}

func (b *Backend) createMatch(c *gin.Context) {
	var in marketplace.CreateMatchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	ri := slices.IndexFunc(b.requests, func(r marketplace.ShoppingRequest) bool { return r.ID == in.RequestID })
	ii := slices.IndexFunc(b.itineraries, func(it marketplace.TravelItinerary) bool { return it.ID == in.ItineraryID })
	if ri < 0 || ii < 0 {
		abort(c, http.StatusNotFound, "Shopping request or itinerary not found")
		return
	}
	req := &b.requests[ri]
	if req.ShopperID != c.GetString(ctxUserID) {
		abort(c, http.StatusForbidden, "Only the shopper can request a traveler")
		return
	}
	if req.Status != marketplace.RequestOpen {
		abort(c, http.StatusBadRequest, "Shopping request is no longer open")
		return
	}
	m := &marketplace.Match{
		ID:          b.newID(),
		RequestID:   req.ID,
		ItineraryID: in.ItineraryID,
		TravelerID:  b.itineraries[ii].TravelerID,
		Status:      "pending",
	}
	b.matches[m.ID] = m
	req.Status = marketplace.RequestMatched
	b.notifyLocked(m.TravelerID, marketplace.NotificationMatch, "New delivery request",
		"A shopper wants you to bring "+req.ProductName+".", m.ID)
	c.JSON(http.StatusCreated, *m)
}

func (b *Backend) acceptRequest(c *gin.Context) {
	var in marketplace.AcceptRequestInput
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
	if m.TravelerID != in.TravelerID || m.TravelerID != c.GetString(ctxUserID) {
		abort(c, http.StatusForbidden, "Only the matched traveler can accept")
		return
	}
	if m.Status != "pending" {
		abort(c, http.StatusBadRequest, "Match already "+m.Status)
		return
	}
	m.Status = "accepted"
	req := b.requestLocked(m.RequestID)
	if req != nil {
		req.Status = marketplace.RequestInProgress
		b.notifyLocked(req.ShopperID, marketplace.NotificationRequest, "Request accepted",
			"A traveler accepted your request for "+req.ProductName+".", m.ID)
	}
	c.JSON(http.StatusOK, *m)
}

func (b *Backend) confirmDelivery(c *gin.Context) {
	var in marketplace.ConfirmDeliveryInput
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
	req := b.requestLocked(m.RequestID)
	if req == nil || req.ShopperID != in.ShopperID || in.ShopperID != c.GetString(ctxUserID) {
		abort(c, http.StatusForbidden, "Only the shopper can confirm delivery")
		return
	}
	if m.Status != "accepted" {
		abort(c, http.StatusBadRequest, "Match is not in progress")
		return
	}
	m.Status = "delivered"
	req.Status = marketplace.RequestCompleted
	b.notifyLocked(m.TravelerID, marketplace.NotificationMatch, "Delivery confirmed",
		"The shopper confirmed delivery of "+req.ProductName+".", m.ID)
	c.JSON(http.StatusOK, marketplace.StatusResult{Status: "delivered", Message: "Delivery confirmed"})
}

func (b *Backend) requestLocked(id string) *marketplace.ShoppingRequest {
	i := slices.IndexFunc(b.requests, func(r marketplace.ShoppingRequest) bool { return r.ID == id })
	if i < 0 {
		return nil
	}
	return &b.requests[i]
}

func (b *Backend) listNotifications(c *gin.Context) {
	userID := c.Param("userId")
	if userID != c.GetString(ctxUserID) {
		abort(c, http.StatusForbidden, "You can only read your own notifications")
		return
	}
	b.mu.Lock()
	out := slices.Clone(b.notifications[userID])
	b.mu.Unlock()
	if out == nil {
		out = []marketplace.Notification{}
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) raiseDispute(c *gin.Context) {
	var in marketplace.RaiseDisputeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.RaisedBy != c.GetString(ctxUserID) {
		abort(c, http.StatusForbidden, "You can only raise disputes as yourself")
		return
	}
	if strings.TrimSpace(in.Reason) == "" {
		abort(c, http.StatusBadRequest, "A reason is required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.matches[in.MatchID]; !ok {
		abort(c, http.StatusNotFound, "Match not found")
		return
	}
	d := marketplace.Dispute{
		ID:       b.newID(),
		MatchID:  in.MatchID,
		RaisedBy: in.RaisedBy,
		Reason:   in.Reason,
		Status:   "open",
	}
	b.disputes = append(b.disputes, d)
	c.JSON(http.StatusCreated, d)
}

var cities = []marketplace.LocationSuggestion{
	{Name: "Bangalore", Country: "India"},
	{Name: "Berlin", Country: "Germany"},
	{Name: "Delhi", Country: "India"},
	{Name: "Dubai", Country: "United Arab Emirates"},
	{Name: "London", Country: "United Kingdom"},
	{Name: "Mumbai", Country: "India"},
	{Name: "New York", Country: "United States"},
	{Name: "Paris", Country: "France"},
	{Name: "Singapore", Country: "Singapore"},
	{Name: "Tokyo", Country: "Japan"},
}

func (b *Backend) suggestLocations(c *gin.Context) {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	out := []marketplace.LocationSuggestion{}
	for _, city := range cities {
		if q == "" || strings.HasPrefix(strings.ToLower(city.Name), q) {
			out = append(out, city)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) track(c *gin.Context) {
	var ev marketplace.Event
	if err := c.ShouldBindJSON(&ev); err != nil || ev.Type == "" {
		abort(c, http.StatusBadRequest, "event_type is required")
		return
	}
	b.mu.Lock()
	b.events = append(b.events, ev)
	b.mu.Unlock()
	c.Status(http.StatusNoContent)
}
