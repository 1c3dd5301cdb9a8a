package domain

import (
	"regexp"
	"strings"
	"time"
)

type RoomType string

const (
	RoomIndividual RoomType = "Individual"
	RoomShared     RoomType = "Shared"
)

type BathroomType string

const (
	BathroomEnsuite BathroomType = "Ensuite"
	BathroomShared  BathroomType = "Shared"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderAny    Gender = "Any"
)

type AddressType string

const (
	AddressResidential AddressType = "R"
	AddressBusiness    AddressType = "B"
)

type Room struct {
	ID            int64        `json:"id"`
	RoomType      RoomType     `json:"room_type"`
	BathroomType  BathroomType `json:"bathroom_type"`
	Gender        Gender       `json:"gender"`
	Description   string       `json:"description"`
	RentPrice     float64      `json:"rent_price"`
	Size          int          `json:"size"`
	NumberOfRooms int          `json:"number_of_rooms"`
	IsRented      bool         `json:"is_rented"`
	OwnerID       int64        `json:"owner_id"`
	AddressID     int64        `json:"-"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type Address struct {
	ID         int64       `json:"id"`
	Type       AddressType `json:"type"`
	Street     string      `json:"street"`
	Number     int         `json:"number"`
	Other      string      `json:"other,omitempty"`
	PostalCode string      `json:"postal_code"`
	CityID     int64       `json:"city_id"`
}

// AddressInput carries the address fields shared by room and
// property-owner requests.
type AddressInput struct {
	Street     string `json:"street"`
	Number     int    `json:"number"`
	Other      string `json:"other,omitempty"`
	PostalCode string `json:"postal_code"`
	CityID     int64  `json:"city_id"`
}

// RoomInput is the create/update request for a room. The owner id is filled
// from the session token, never from the request body.
type RoomInput struct {
	AddressInput
	RoomType      RoomType     `json:"room_type"`
	BathroomType  BathroomType `json:"bathroom_type"`
	Gender        Gender       `json:"gender"`
	Description   string       `json:"description"`
	RentPrice     float64      `json:"rent_price"`
	Size          int          `json:"size"`
	NumberOfRooms int          `json:"number_of_rooms"`
	OwnerID       int64        `json:"-"`
}

// RoomSearch holds the public search filters. Range bounds are pointers so
// an absent bound places no constraint. The url tags allow encoding a search
// into query parameters.
type RoomSearch struct {
	CityID           *int64       `json:"city_id,omitempty" url:"cityId,omitempty"`
	RoomType         RoomType     `json:"room_type,omitempty" url:"roomType,omitempty"`
	BathroomType     BathroomType `json:"bathroom_type,omitempty" url:"bathroomType,omitempty"`
	Gender           Gender       `json:"gender,omitempty" url:"gender,omitempty"`
	Description      string       `json:"description,omitempty" url:"description,omitempty"`
	RentPriceMin     *float64     `json:"rent_price_min,omitempty" url:"rentPriceMin,omitempty"`
	RentPriceMax     *float64     `json:"rent_price_max,omitempty" url:"rentPriceMax,omitempty"`
	SizeMin          *int         `json:"size_min,omitempty" url:"sizeMin,omitempty"`
	SizeMax          *int         `json:"size_max,omitempty" url:"sizeMax,omitempty"`
	NumberOfRoomsMin *int         `json:"number_of_rooms_min,omitempty" url:"numberOfRoomsMin,omitempty"`
	NumberOfRoomsMax *int         `json:"number_of_rooms_max,omitempty" url:"numberOfRoomsMax,omitempty"`
	SortBy           string       `json:"sort_by,omitempty" url:"sortBy,omitempty"`
	SortDir          string       `json:"sort_dir,omitempty" url:"sortDir,omitempty"`
}

// RoomResult is the flattened room representation served to browsing users:
// room fields plus its address, city and owner contact info, with picture
// URLs in display order.
type RoomResult struct {
	ID            int64        `json:"id"`
	RoomType      RoomType     `json:"room_type"`
	BathroomType  BathroomType `json:"bathroom_type"`
	Gender        Gender       `json:"gender"`
	Description   string       `json:"description"`
	RentPrice     float64      `json:"rent_price"`
	Size          int          `json:"size"`
	NumberOfRooms int          `json:"number_of_rooms"`
	IsRented      bool         `json:"is_rented"`
	Street        string       `json:"street"`
	Number        int          `json:"number"`
	Other         string       `json:"other,omitempty"`
	PostalCode    string       `json:"postal_code"`
	City          string       `json:"city"`
	Pictures      []string     `json:"pictures"`
	OwnerName     string       `json:"owner_name,omitempty"`
	OwnerCity     string       `json:"owner_city,omitempty"`
	OwnerPhone    string       `json:"owner_phone,omitempty"`
}

type Favorite struct {
	UserID    int64     `json:"user_id"`
	RoomID    int64     `json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Postal codes are 6 alternating letter-digit characters, e.g. T2X1V4.
var postalCodeRegex = regexp.MustCompile(`^([a-zA-Z][0-9]){3}$`)

func (a *AddressInput) Normalize() {
	a.Street = strings.TrimSpace(a.Street)
	a.Other = strings.TrimSpace(a.Other)
	a.PostalCode = strings.ToUpper(strings.TrimSpace(a.PostalCode))
}

func (a *AddressInput) validate() ValidationErrors {
	var errs ValidationErrors
	if a.Street == "" {
		errs = append(errs, FieldError{Field: "street", Message: "is required"})
	} else if len(a.Street) > 100 {
		errs = append(errs, FieldError{Field: "street", Message: "must be at most 100 characters"})
	}
	if a.Number < 1 {
		errs = append(errs, FieldError{Field: "number", Message: "must be a positive number"})
	}
	if len(a.Other) > 100 {
		errs = append(errs, FieldError{Field: "other", Message: "must be at most 100 characters"})
	}
	if len(a.PostalCode) != 6 {
		errs = append(errs, FieldError{Field: "postalCode", Message: "must have exactly 6 characters"})
	} else if !postalCodeRegex.MatchString(a.PostalCode) {
		errs = append(errs, FieldError{Field: "postalCode", Message: "is not valid"})
	}
	if a.CityID < 1 {
		errs = append(errs, FieldError{Field: "cityId", Message: "is required"})
	}
	return errs
}

func (r *RoomInput) Normalize() {
	r.AddressInput.Normalize()
	r.Description = strings.TrimSpace(r.Description)
}

func (r *RoomInput) Validate() error {
	errs := r.AddressInput.validate()
	switch r.RoomType {
	case RoomIndividual, RoomShared:
	default:
		errs = append(errs, FieldError{Field: "roomType", Message: "select a valid option for room type"})
	}
	switch r.BathroomType {
	case BathroomEnsuite, BathroomShared:
	default:
		errs = append(errs, FieldError{Field: "bathroomType", Message: "select a valid option for bathroom"})
	}
	switch r.Gender {
	case GenderMale, GenderFemale, GenderAny:
	default:
		errs = append(errs, FieldError{Field: "gender", Message: "select a valid option for gender"})
	}
	if r.Description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "is required"})
	}
	if r.RentPrice < 100 {
		errs = append(errs, FieldError{Field: "rentPrice", Message: "must be at least 100"})
	}
	if r.Size < 10 || r.Size > 51 {
		errs = append(errs, FieldError{Field: "size", Message: "must be between 10 and 51"})
	}
	if r.NumberOfRooms < 1 {
		errs = append(errs, FieldError{Field: "numberOfRooms", Message: "must be at least 1"})
	}
	return errs.OrNil()
}

// Valid sort keys for room search; anything else leaves results unsorted.
const (
	SortByPrice = "price"
	SortBySize  = "size"
)
