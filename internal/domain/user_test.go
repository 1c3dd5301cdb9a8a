package domain

import (
	"errors"
	"testing"
)

func TestCreateUserRequestNormalize(t *testing.T) {
	req := CreateUserRequest{
		FirstName: "  Ana ",
		LastName:  " Reyes ",
		Email:     " Ana.Reyes@Example.COM ",
		Password:  "Str0ng!pass",
	}
	req.Normalize()

	if req.FirstName != "Ana" || req.LastName != "Reyes" {
		t.Errorf("names should be trimmed, got %q %q", req.FirstName, req.LastName)
	}
	if req.Email != "ana.reyes@example.com" {
		t.Errorf("email should be trimmed and lowercased, got %q", req.Email)
	}
}

func TestPasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Str0ng!pass", true},
		{"An0ther#One", true},
		{"weakpass", false},
		{"Short1!", false},
		{"nouppercase1!", false},
		{"NOLOWERCASE1!", false},
		{"NoDigits!!", false},
		{"NoSymbols11", false},
		{"", false},
	}
	for _, tc := range cases {
		req := CreateUserRequest{
			FirstName: "Ana",
			LastName:  "Reyes",
			Email:     "ana@example.com",
			Password:  tc.password,
		}
		err := req.Validate()
		if tc.ok && err != nil {
			t.Errorf("password %q should be accepted, got %v", tc.password, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("password %q should be rejected", tc.password)
		}
	}
}

func TestEmailValidation(t *testing.T) {
	cases := []struct {
		email string
		ok    bool
	}{
		{"ana@example.com", true},
		{"a.b+c@sub.example.org", true},
		{"not-an-email", false},
		{"@example.com", false},
		{"ana@", false},
		{"", false},
	}
	for _, tc := range cases {
		req := LoginRequest{Email: tc.email, Password: "whatever"}
		err := req.Validate()
		if tc.ok && err != nil {
			t.Errorf("email %q should be accepted, got %v", tc.email, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("email %q should be rejected", tc.email)
		}
	}
}

func TestPropertyOwnerRequestValidate(t *testing.T) {
	valid := PropertyOwnerRequest{
		AddressInput: AddressInput{
			Street:     "Main St",
			Number:     42,
			PostalCode: "T2X1V4",
			CityID:     1,
		},
		Type:  AddressBusiness,
		Phone: "403-555-0100",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := valid
	bad.Type = "X"
	bad.Phone = "abc"
	err := bad.Validate()

	var validationErrs ValidationErrors
	if !errors.As(err, &validationErrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if len(validationErrs) != 2 {
		t.Errorf("expected 2 field errors, got %d: %v", len(validationErrs), validationErrs)
	}
}
