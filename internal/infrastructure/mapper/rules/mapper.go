package rules

import (
	"context"
	"strings"

	"booking-assistant/internal/application/port/output"
	"booking-assistant/internal/domain/entity"
)

var _ output.FieldMapperPort = (*Mapper)(nil)

// Mapper reconciles profile data against form fields with keyword rules.
// It is deterministic and needs no network, which makes it the default
// mapper implementation.
type Mapper struct {
	logger output.LoggerPort
}

func New(logger output.LoggerPort) *Mapper {
	return &Mapper{logger: logger}
}

func (m *Mapper) Map(ctx context.Context, profile *entity.UserProfile, fields []entity.FormField) (*output.FieldMapping, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	mapping := &output.FieldMapping{}

	for _, f := range fields {
		value, ok := valueFor(profile, f)
		if !ok {
			if f.Required {
				mapping.MissingLabels = append(mapping.MissingLabels, f.Label)
			}
			continue
		}

		action := entity.ActionType
		if f.FieldType == "select" {
			action = entity.ActionSelect
		} else if f.FieldType == "checkbox" || f.FieldType == "radio" {
			action = entity.ActionClick
		}

		mapping.Assignments = append(mapping.Assignments, entity.FieldAssignment{
			FieldID: f.FieldID,
			Value:   value,
			Action:  action,
		})
	}

	m.logger.Debug("Fields mapped",
		"fields", len(fields),
		"assignments", len(mapping.Assignments),
		"missing", len(mapping.MissingLabels))

	return mapping, nil
}

// valueFor matches a field to a profile value by keywords in its label and
// locator. The first rule whose keywords all miss falls through to the
// next; fields nothing matches are reported unsatisfied.
func valueFor(p *entity.UserProfile, f entity.FormField) (string, bool) {
	key := strings.ToLower(f.Label + " " + f.FieldID)

	switch {
	case containsAny(key, "first name", "firstname", "given name"):
		return p.FirstName, p.FirstName != ""
	case containsAny(key, "last name", "lastname", "surname", "family name"):
		return p.LastName, p.LastName != ""
	case containsAny(key, "full name", "fullname", "your name", "patient name"):
		return p.FullName(), p.FullName() != ""
	case containsAny(key, "email", "e-mail"):
		return p.Email, p.Email != ""
	case containsAny(key, "phone", "mobile", "telephone"):
		return p.Phone, p.Phone != ""
	case containsAny(key, "date of birth", "birth", "dob"):
		return p.DateOfBirth, p.DateOfBirth != ""
	case containsAny(key, "zip", "postal"):
		return p.ZipCode, p.ZipCode != ""
	case containsAny(key, "city", "town"):
		return p.City, p.City != ""
	case containsAny(key, "state", "province"):
		return p.State, p.State != ""
	case containsAny(key, "address", "street"):
		return p.Address, p.Address != ""
	case containsAny(key, "member id", "memberid", "policy", "insurance id"):
		return p.InsuranceMemberID, p.InsuranceMemberID != ""
	case containsAny(key, "insurance", "carrier", "payer"):
		return p.InsuranceProvider, p.InsuranceProvider != ""
	case containsAny(key, "condition", "medical history", "diagnos"):
		return strings.Join(p.MedicalConditions, ", "), len(p.MedicalConditions) > 0
	case containsAny(key, "medication", "prescription"):
		return strings.Join(p.Medications, ", "), len(p.Medications) > 0
	case strings.Contains(key, "name"):
		// Generic "name" only after the specific name rules missed.
		return p.FullName(), p.FullName() != ""
	}

	return "", false
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
