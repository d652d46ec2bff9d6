package model

import (
	"regexp"
	"strings"
	"time"
)

// Validation constants for profiles
const (
	MinProfileNameLength = 2
	MaxProfileNameLength = 50
	MinProfileAge        = 10 // must be strictly older
	MaxProfileAge        = 120
	DateOfBirthLayout    = "2006-01-02"
)

var profileNamePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// UserProfile is the locally stored identity of the single user
type UserProfile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth string    `json:"dob"`
	CreatedAt   time.Time `json:"createdAt"`
	LastLogin   time.Time `json:"lastLogin"`
}

// Complete returns true if the profile has the fields required to use it
func (p *UserProfile) Complete() bool {
	return p != nil && p.Name != "" && p.DateOfBirth != ""
}

// RegisterProfileRequest represents the onboarding form
type RegisterProfileRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"dob"`
}

// Validate validates the onboarding request against the given current time
func (r *RegisterProfileRequest) Validate(now time.Time) []FieldError {
	var errors []FieldError

	name := strings.TrimSpace(r.Name)
	switch {
	case len(name) < MinProfileNameLength:
		errors = append(errors, FieldError{Field: "name", Message: "Name must be at least 2 characters long"})
	case len(name) > MaxProfileNameLength:
		errors = append(errors, FieldError{Field: "name", Message: "Name must be less than 50 characters"})
	case !profileNamePattern.MatchString(name):
		errors = append(errors, FieldError{Field: "name", Message: "Name can only contain letters and spaces"})
	}

	if fe := validateDateOfBirth(strings.TrimSpace(r.DateOfBirth), now); fe != nil {
		errors = append(errors, *fe)
	}

	return errors
}

func validateDateOfBirth(raw string, now time.Time) *FieldError {
	if raw == "" {
		return &FieldError{Field: "dob", Message: "Please select your date of birth"}
	}

	dob, err := time.ParseInLocation(DateOfBirthLayout, raw, now.Location())
	if err != nil {
		return &FieldError{Field: "dob", Message: "Please enter a valid date"}
	}
	if dob.After(now) {
		return &FieldError{Field: "dob", Message: "Date of birth cannot be in the future"}
	}

	age := AgeOn(dob, now)
	if age <= MinProfileAge {
		return &FieldError{Field: "dob", Message: "You must be older than 10 years to use TaskFlow"}
	}
	if age > MaxProfileAge {
		return &FieldError{Field: "dob", Message: "Please enter a valid date of birth"}
	}
	return nil
}

// AgeOn returns the age in whole years at the given time
func AgeOn(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
