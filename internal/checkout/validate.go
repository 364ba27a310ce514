package checkout

import (
	"regexp"
	"strings"
)

var (
	emailPattern       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern       = regexp.MustCompile(`^\+?[\d\s\-()]{8,}$`)
	swissPostalPattern = regexp.MustCompile(`^\d{4}$`)
)

func validateEmail(email string) string {
	if strings.TrimSpace(email) == "" {
		return "E-Mail ist erforderlich"
	}
	if !emailPattern.MatchString(email) {
		return "Ungültige E-Mail-Adresse"
	}
	return ""
}

// validatePhone accepts an empty phone; a non-empty phone must match a loose
// international pattern after stripping spaces.
func validatePhone(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return ""
	}
	if !phonePattern.MatchString(strings.ReplaceAll(phone, " ", "")) {
		return "Ungültige Telefonnummer"
	}
	return ""
}

// validateAddress checks that every field is non-empty after trimming and
// that Swiss postal codes have exactly 4 digits.
func validateAddress(a Address) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(a.FirstName) == "" {
		errs["first_name"] = "Vorname ist erforderlich"
	}
	if strings.TrimSpace(a.LastName) == "" {
		errs["last_name"] = "Nachname ist erforderlich"
	}
	if strings.TrimSpace(a.Street) == "" {
		errs["street"] = "Strasse ist erforderlich"
	}
	if strings.TrimSpace(a.HouseNumber) == "" {
		errs["house_number"] = "Hausnummer ist erforderlich"
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		errs["postal_code"] = "PLZ ist erforderlich"
	}
	if strings.TrimSpace(a.City) == "" {
		errs["city"] = "Stadt ist erforderlich"
	}
	if strings.TrimSpace(a.Country) == "" {
		errs["country"] = "Land ist erforderlich"
	}

	if a.Country == "Switzerland" && a.PostalCode != "" {
		if !swissPostalPattern.MatchString(a.PostalCode) {
			errs["postal_code"] = "Schweizer PLZ muss 4 Ziffern haben"
		}
	}

	return errs
}
