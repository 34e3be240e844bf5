package entity

// Provider is a bookable medical provider from the directory.
type Provider struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Specialty         string   `json:"specialty"`
	Address           string   `json:"address"`
	City              string   `json:"city"`
	Phone             string   `json:"phone"`
	AcceptedInsurance []string `json:"acceptedInsurance"`
	Services          []string `json:"services"`
	Rating            float64  `json:"rating"`
	AcceptingPatients bool     `json:"acceptingPatients"`
	BookingURL        string   `json:"bookingUrl"`
}
