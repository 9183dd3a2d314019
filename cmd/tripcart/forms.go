package main

import (
	"strings"
	"time"

	"github.com/kbukum/tripcart/marketplace"
	"github.com/kbukum/tripcart/util"
	"github.com/kbukum/tripcart/validation"
)

const dateLayout = "2006-01-02"

type signupForm struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func (f *signupForm) validate() error {
	f.FullName = util.StripMarkup(f.FullName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	return validation.Struct(f)
}

func (f signupForm) input() marketplace.SignupInput {
	return marketplace.SignupInput{FullName: f.FullName, Email: f.Email, Password: f.Password}
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (f *loginForm) validate() error {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	return validation.Struct(f)
}

type requestForm struct {
	ProductName    string  `json:"product_name" validate:"required,max=100"`
	Description    string  `json:"description" validate:"max=500"`
	Category       string  `json:"category" validate:"max=50"`
	Price          float64 `json:"price" validate:"gt=0"`
	SellerLocation string  `json:"seller_location" validate:"max=100"`
	RequiredBy     string  `json:"required_by" validate:"omitempty,datetime=2006-01-02"`
}

func (f *requestForm) validate() error {
	f.ProductName = util.StripMarkup(f.ProductName)
	f.Description = util.StripMarkup(f.Description)
	f.Category = util.StripMarkup(f.Category)
	f.SellerLocation = util.StripMarkup(f.SellerLocation)
	f.RequiredBy = strings.TrimSpace(f.RequiredBy)
	return validation.Struct(f)
}

func (f requestForm) request(shopperID string) marketplace.ShoppingRequest {
	return marketplace.ShoppingRequest{
		ShopperID:      shopperID,
		ProductName:    f.ProductName,
		Description:    f.Description,
		Category:       f.Category,
		Price:          f.Price,
		SellerLocation: f.SellerLocation,
		RequiredBy:     f.RequiredBy,
	}
}

type itineraryForm struct {
	FromLocation   string    `json:"from_location" validate:"required,max=100"`
	ToLocation     string    `json:"to_location" validate:"required,max=100"`
	DepartureDate  time.Time `json:"departure_date" validate:"required"`
	ArrivalDate    time.Time `json:"arrival_date" validate:"required,gtefield=DepartureDate"`
	AvailableSpace float64   `json:"available_space" validate:"gte=0,lte=10000"`
	PreferredItems string    `json:"preferred_items" validate:"max=50"`
}

// validate checks the form; departures before today are rejected.
func (f *itineraryForm) validate(now time.Time) error {
	f.FromLocation = util.StripMarkup(f.FromLocation)
	f.ToLocation = util.StripMarkup(f.ToLocation)
	f.PreferredItems = util.StripMarkup(f.PreferredItems)

	today := now.UTC().Truncate(24 * time.Hour)
	v := validation.New().Merge("itinerary", validation.Struct(f))
	v.Custom(!strings.EqualFold(f.FromLocation, f.ToLocation) || f.FromLocation == "",
		"to_location", "must differ from from_location")
	v.Custom(f.DepartureDate.IsZero() || !f.DepartureDate.Before(today),
		"departure_date", "must not be in the past")
	return v.Err()
}

func (f itineraryForm) itinerary(travelerID string) marketplace.TravelItinerary {
	return marketplace.TravelItinerary{
		TravelerID:     travelerID,
		FromLocation:   f.FromLocation,
		ToLocation:     f.ToLocation,
		DepartureDate:  f.DepartureDate,
		ArrivalDate:    f.ArrivalDate,
		AvailableSpace: f.AvailableSpace,
		PreferredItems: f.PreferredItems,
	}
}

// parseDate parses a YYYY-MM-DD flag value. Empty yields the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}
