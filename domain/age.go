package domain

import "time"

// Tier thresholds in whole years.
const (
	childAgeLimit = 13
	adultAgeFloor = 18
)

// ClassifyAge computes whole-years age from a date of birth and a reference
// time, then maps it to a compliance tier. The year difference is decremented
// when the reference month/day precedes the birth month/day, so a birthday is
// only counted once it has actually passed.
func ClassifyAge(dateOfBirth, now time.Time) (int, ComplianceTier, error) {
	if dateOfBirth.IsZero() || dateOfBirth.After(now) {
		return 0, "", ErrInvalidDate
	}

	age := now.Year() - dateOfBirth.Year()
	if now.Month() < dateOfBirth.Month() ||
		(now.Month() == dateOfBirth.Month() && now.Day() < dateOfBirth.Day()) {
		age--
	}

	switch {
	case age < childAgeLimit:
		return age, TierChild, nil
	case age < adultAgeFloor:
		return age, TierMinor, nil
	default:
		return age, TierAdult, nil
	}
}
