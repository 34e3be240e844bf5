package directory

import "booking-assistant/internal/domain/entity"

// DefaultProviders is the built-in demo directory used when no providers
// file is configured or the configured one cannot be read.
func DefaultProviders() []entity.Provider {
	return []entity.Provider{
		{
			ID:                "prov-001",
			Name:              "Springfield Family Medicine",
			Specialty:         "Family Medicine",
			Address:           "120 Oak Avenue, Springfield, IL 62701",
			City:              "Springfield",
			Phone:             "555-0101",
			AcceptedInsurance: []string{"BlueCross BlueShield", "Aetna", "Cigna"},
			Services:          []string{"Annual physicals", "Preventive care", "Chronic disease management"},
			Rating:            4.7,
			AcceptingPatients: true,
			BookingURL:        "https://springfield-familymed.example.com/book",
		},
		{
			ID:                "prov-002",
			Name:              "Dr. Priya Nair, MD",
			Specialty:         "Internal Medicine",
			Address:           "88 Birch Road, Springfield, IL 62702",
			City:              "Springfield",
			Phone:             "555-0117",
			AcceptedInsurance: []string{"Accepts most major insurance plans"},
			Services:          []string{"Internal medicine", "Diabetes care"},
			Rating:            4.9,
			AcceptingPatients: true,
			BookingURL:        "https://drnair.example.com/appointments",
		},
		{
			ID:                "prov-003",
			Name:              "Capitol Urgent Care",
			Specialty:         "Urgent Care",
			Address:           "15 State Street, Springfield, IL 62704",
			City:              "Springfield",
			Phone:             "555-0133",
			AcceptedInsurance: []string{"All plans accepted"},
			Services:          []string{"Walk-in visits", "Minor injuries", "Lab work"},
			Rating:            4.2,
			AcceptingPatients: true,
			BookingURL:        "https://capitolurgent.example.com/schedule",
		},
		{
			ID:                "prov-004",
			Name:              "Lakeside Pediatrics",
			Specialty:         "Pediatrics",
			Address:           "301 Shoreline Drive, Chatham, IL 62629",
			City:              "Chatham",
			Phone:             "555-0155",
			AcceptedInsurance: []string{"UnitedHealthcare", "BlueCross BlueShield"},
			Services:          []string{"Well-child visits", "Immunizations"},
			Rating:            4.8,
			AcceptingPatients: true,
			BookingURL:        "https://lakesidepeds.example.com/book",
		},
		{
			ID:                "prov-005",
			Name:              "Prairie Heart Clinic",
			Specialty:         "Cardiology",
			Address:           "940 Prairie View Lane, Springfield, IL 62711",
			City:              "Springfield",
			Phone:             "555-0171",
			AcceptedInsurance: []string{"Medicare", "Aetna"},
			Services:          []string{"Cardiac consultations", "Echocardiograms"},
			Rating:            4.5,
			AcceptingPatients: false,
			BookingURL:        "https://prairieheart.example.com/appointments",
		},
		{
			ID:                "prov-006",
			Name:              "Downtown Dermatology Group",
			Specialty:         "Dermatology",
			Address:           "52 Monroe Street, Springfield, IL 62701",
			City:              "Springfield",
			Phone:             "555-0188",
			AcceptedInsurance: []string{"Cigna", "Humana"},
			Services:          []string{"Skin exams", "Mole removal"},
			Rating:            4.4,
			AcceptingPatients: true,
			BookingURL:        "https://downtownderm.example.com/book",
		},
	}
}
