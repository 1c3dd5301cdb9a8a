package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

type User struct {
	ID                  int64      `json:"id"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	IsOwner             bool       `json:"is_owner"`
	FailedLoginAttempts int        `json:"-"`
	LastLoginAttempt    *time.Time `json:"-"`
	Phone               string     `json:"phone,omitempty"`
	ProfilePictureURL   string     `json:"profile_picture_url,omitempty"`
	AddressID           *int64     `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PropertyOwnerRequest promotes a user to property owner; the address is
// created together with the promotion.
type PropertyOwnerRequest struct {
	AddressInput
	Type  AddressType `json:"type"`
	Phone string      `json:"phone"`
}

// UserInfo is the user representation safe to return to clients.
type UserInfo struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	IsOwner   bool   `json:"is_owner"`
	Phone     string `json:"phone,omitempty"`
}

func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsOwner:   u.IsOwner,
		Phone:     u.Phone,
	}
}

func (r *CreateUserRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *CreateUserRequest) Validate() error {
	var errs ValidationErrors
	if r.FirstName == "" {
		errs = append(errs, FieldError{Field: "firstName", Message: "is required"})
	}
	if r.LastName == "" {
		errs = append(errs, FieldError{Field: "lastName", Message: "is required"})
	}
	if r.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "is required"})
	} else if !isValidEmail(r.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "is not a valid email address"})
	}
	if msg := checkPasswordStrength(r.Password); msg != "" {
		errs = append(errs, FieldError{Field: "password", Message: msg})
	}
	return errs.OrNil()
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	var errs ValidationErrors
	if r.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "is required"})
	} else if !isValidEmail(r.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "is not a valid email address"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "is required"})
	}
	return errs.OrNil()
}

func (r *PropertyOwnerRequest) Normalize() {
	r.AddressInput.Normalize()
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r *PropertyOwnerRequest) Validate() error {
	errs := r.AddressInput.validate()
	if r.Type != AddressResidential && r.Type != AddressBusiness {
		errs = append(errs, FieldError{Field: "type", Message: "must be R or B"})
	}
	if r.Phone == "" {
		errs = append(errs, FieldError{Field: "phone", Message: "is required"})
	} else if !isValidPhone(r.Phone) {
		errs = append(errs, FieldError{Field: "phone", Message: "is not a valid phone number"})
	}
	return errs.OrNil()
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

var phoneRegex = regexp.MustCompile(`^[\+]?[\d\s\-\(\)]+$`)

func isValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone) && len(phone) >= 7
}

// checkPasswordStrength enforces at least 8 characters with one lowercase,
// one uppercase, one digit and one symbol. Returns an empty string when the
// password is acceptable.
func checkPasswordStrength(password string) string {
	if password == "" {
		return "is required"
	}
	if len(password) < 8 {
		return "must be at least 8 characters"
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, c := range password {
		switch {
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsDigit(c):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit || !hasSymbol {
		return "must contain a lowercase letter, an uppercase letter, a number and a symbol"
	}
	return ""
}
