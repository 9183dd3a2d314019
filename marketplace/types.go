package marketplace

import "time"

// Profile is the user profile returned by GET /user-profile/{id}.
type Profile struct {
	UserID         string `json:"user_id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Location       string `json:"location,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Avatar         string `json:"avatar,omitempty"`
	Available      bool   `json:"available"`
	KYCDocumentURL string `json:"kyc_document_url,omitempty"`
	KYCStatus      string `json:"kyc_status,omitempty"`
	IsAdmin        bool   `json:"is_admin,omitempty"`
}

// HasKYC reports whether a KYC document has been submitted.
func (p *Profile) HasKYC() bool { return p != nil && p.KYCDocumentURL != "" }

// ProfileUpdate is the body of PUT /user-profile/{id}. Nil fields are left
// unchanged by the backend.
type ProfileUpdate struct {
	FullName    *string `json:"full_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Location    *string `json:"location,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

type SignupInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by signup and login. The session credential is
// an http-only cookie and never appears here.
type AuthResult struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Message string `json:"message,omitempty"`
}

// OAuthProvider names a supported social login provider.
type OAuthProvider string

const (
	ProviderGoogle   OAuthProvider = "google"
	ProviderFacebook OAuthProvider = "facebook"
)

type oauthURLResponse struct {
	AuthURL string `json:"authUrl"`
}

// Shopping request statuses.
const (
	RequestOpen       = "open"
	RequestMatched    = "matched"
	RequestInProgress = "in_progress"
	RequestCompleted  = "completed"
	RequestCancelled  = "cancelled"
)

// ShoppingRequest is an item a shopper wants bought abroad.
type ShoppingRequest struct {
	ID             string    `json:"id,omitempty"`
	ShopperID      string    `json:"shopper_id"`
	ProductName    string    `json:"product_name"`
	Description    string    `json:"description,omitempty"`
	Category       string    `json:"category,omitempty"`
	Price          float64   `json:"price"`
	SellerLocation string    `json:"seller_location,omitempty"`
	RequiredBy     string    `json:"required_by,omitempty"`
	Status         string    `json:"status,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitzero"`
}

// Itinerary statuses.
const (
	ItineraryActive    = "active"
	ItineraryCompleted = "completed"
	ItineraryCancelled = "cancelled"
)

// TravelItinerary is a trip a traveler offers luggage space on.
type TravelItinerary struct {
	ID             string    `json:"id,omitempty"`
	TravelerID     string    `json:"traveler_id"`
	FromLocation   string    `json:"from_location"`
	ToLocation     string    `json:"to_location"`
	DepartureDate  time.Time `json:"departure_date"`
	ArrivalDate    time.Time `json:"arrival_date"`
	AvailableSpace float64   `json:"available_space,omitempty"`
	PreferredItems string    `json:"preferred_items,omitempty"`
	Available      bool      `json:"available"`
	Status         string    `json:"status,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitzero"`
}

// ItineraryUpdate is the body of PATCH /travel-itineraries/{id}.
type ItineraryUpdate struct {
	Status         *string  `json:"status,omitempty"`
	Available      *bool    `json:"available,omitempty"`
	AvailableSpace *float64 `json:"available_space,omitempty"`
	PreferredItems *string  `json:"preferred_items,omitempty"`
}

type itineraryList struct {
	TravelItineraries []TravelItinerary `json:"travel_itineraries"`
}

// Traveler is a suggested traveler for a shopping request.
type Traveler struct {
	TravelerID string          `json:"traveler_id"`
	FullName   string          `json:"full_name,omitempty"`
	Rating     float64         `json:"rating,omitempty"`
	Itinerary  TravelItinerary `json:"itinerary"`
	MatchScore float64         `json:"match_score,omitempty"`
}

type Match struct {
	ID          string `json:"id"`
	RequestID   string `json:"request_id"`
	ItineraryID string `json:"itinerary_id"`
	TravelerID  string `json:"traveler_id,omitempty"`
	Status      string `json:"status"`
}

type CreateMatchInput struct {
	RequestID   string `json:"request_id"`
	ItineraryID string `json:"itinerary_id"`
}

type AcceptRequestInput struct {
	MatchID    string `json:"match_id"`
	TravelerID string `json:"traveler_id"`
}

type ConfirmDeliveryInput struct {
	MatchID   string `json:"match_id"`
	ShopperID string `json:"shopper_id"`
}

// StatusResult is the generic acknowledgement returned by action endpoints.
type StatusResult struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

type CreatePaymentInput struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt,omitempty"`
	MatchID  string  `json:"match_id,omitempty"`
}

// PaymentOrder is the escrow order created for a match.
type PaymentOrder struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt,omitempty"`
	OrderID  string  `json:"order_id"`
}

// CapturePaymentInput carries the gateway's payment confirmation.
type CapturePaymentInput struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
}

type AutoReleaseInput struct {
	MatchID string `json:"match_id"`
}

type Transaction struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"match_id,omitempty"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Notification types.
const (
	NotificationMatch   = "match"
	NotificationRequest = "request"
	NotificationPayment = "payment"
	NotificationSystem  = "system"
)

// Notification is a backend-side inbox entry, unrelated to the client's
// own user-visible notifications.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Type      string    `json:"type"`
	RelatedID string    `json:"related_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

type RaiseDisputeInput struct {
	MatchID  string `json:"match_id"`
	RaisedBy string `json:"raised_by"`
	Reason   string `json:"reason"`
}

type Dispute struct {
	ID         string `json:"id"`
	MatchID    string `json:"match_id"`
	RaisedBy   string `json:"raised_by"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
	Resolution string `json:"resolution,omitempty"`
}

type ResolveDisputeInput struct {
	DisputeID  string `json:"dispute_id"`
	Resolution string `json:"resolution"`
}

// KYCSubmission is a pending KYC document awaiting admin review.
type KYCSubmission struct {
	UserID      string `json:"user_id"`
	FullName    string `json:"full_name,omitempty"`
	DocumentURL string `json:"kyc_document_url"`
	Status      string `json:"kyc_status"`
}

type ReviewKYCInput struct {
	UserID   string `json:"user_id"`
	Approved bool   `json:"approved"`
	Note     string `json:"note,omitempty"`
}

// UploadResult is returned by multipart upload endpoints.
type UploadResult struct {
	URL     string `json:"url"`
	Message string `json:"message,omitempty"`
}

// Event is an analytics event.
type Event struct {
	Type    string         `json:"event_type"`
	UserID  *string        `json:"user_id"`
	Details map[string]any `json:"details,omitempty"`
}

// LocationSuggestion is one entry of the location autocomplete.
type LocationSuggestion struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// String formats the suggestion as the travel form stores it.
func (l LocationSuggestion) String() string {
	if l.Country == "" {
		return l.Name
	}
	return l.Name + ", " + l.Country
}
