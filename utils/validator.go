package utils

import (
	"net/url"
	"regexp"
	"strings"

	"academic-management-api/orcid"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	doiRegex   = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)
)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	return true, ""
}

// ValidateOrcidID accepts NNNN-NNNN-NNNN-NNNX, case-insensitive on the check digit.
func ValidateOrcidID(id string) bool {
	return orcid.ValidID(strings.ToUpper(strings.TrimSpace(id)))
}

// ValidateDOI accepts a bare DOI such as 10.1000/xyz123, not a doi.org link.
func ValidateDOI(doi string) bool {
	return doiRegex.MatchString(strings.TrimSpace(doi))
}

// ValidateURL accepts absolute http and https links.
func ValidateURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// SanitizeInput trims spaces and strips null bytes.
func SanitizeInput(input string) string {
	return strings.ReplaceAll(strings.TrimSpace(input), "\x00", "")
}
