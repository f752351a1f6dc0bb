package domain

import (
	"fmt"
	"strings"
)

// Address is a postal address as entered in the form. No field is required.
type Address struct {
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
}

// Format builds the single-line geocoder query
// "{street} {number}, {zip} {city}, {region}, {country}".
// Each field is trimmed independently; empty fields simply leave gaps.
func (a Address) Format(region, country string) string {
	return fmt.Sprintf("%s %s, %s %s, %s, %s",
		strings.TrimSpace(a.Street),
		strings.TrimSpace(a.HouseNumber),
		strings.TrimSpace(a.PostalCode),
		strings.TrimSpace(a.City),
		region,
		country,
	)
}
