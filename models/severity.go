package models

import "strconv"

// SeverityLevel represents the severity bucket of a security finding.
type SeverityLevel string

const (
	SeverityCritical SeverityLevel = "Critical"
	SeverityHigh     SeverityLevel = "High"
	SeverityMedium   SeverityLevel = "Medium"
	SeverityLow      SeverityLevel = "Low"
	SeverityInfo     SeverityLevel = "Info"
	SeverityUnknown  SeverityLevel = "Unknown"
)

// MapSeverityRating maps a SARIF security-severity rating to a bucket name.
// Buckets: >=9 Critical, >=7 High, >=4 Medium, >0 Low, otherwise Info.
// Non-numeric ratings pass through unchanged; an empty rating maps to "".
func MapSeverityRating(rating string) string {
	if rating == "" {
		return ""
	}
	n, err := strconv.ParseFloat(rating, 64)
	if err != nil {
		return rating
	}
	switch {
	case n >= 9:
		return string(SeverityCritical)
	case n >= 7:
		return string(SeverityHigh)
	case n >= 4:
		return string(SeverityMedium)
	case n > 0:
		return string(SeverityLow)
	default:
		return string(SeverityInfo)
	}
}
