package entity

import "strings"

// UserProfile holds everything known about a patient. It is loaded once
// per session by the profile store and is read-only afterwards.
type UserProfile struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`

	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`

	InsuranceProvider string `json:"insuranceProvider"`
	InsuranceMemberID string `json:"insuranceMemberId"`

	MedicalConditions []string `json:"medicalConditions,omitempty"`
	Medications       []string `json:"medications,omitempty"`
}

func (p *UserProfile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
