package workflow

import (
	"errors"
	"strings"
	"unicode/utf8"

	"patrol/pkg/domain"
	"patrol/pkg/serrors"
)

// Validation sentinels. Each wraps into serrors.ErrValidation so callers can
// branch on the broad kind or on the specific failure.
var (
	ErrMissingFields   = errors.New("all plate fields are required")
	ErrInvalidPrefix   = errors.New("region prefix must be 2 digits")
	ErrInvalidLetter   = errors.New("plate letter must be a single non-numeric character")
	ErrInvalidSequence = errors.New("sequence number must be 3 digits")
	ErrInvalidCityCode = errors.New("city code must be 2 digits")

	ErrMissingVehicleFields = errors.New("all vehicle fields are required")
	ErrInvalidModel         = errors.New("model must be a word, not a number")
	ErrInvalidColor         = errors.New("color must be a word, not a number")
	ErrInvalidYear          = errors.New("year must be 4 digits")

	ErrMissingTicketFields = errors.New("amount and violation are both required")
	ErrInvalidAmount       = errors.New("amount must be a positive number of rials")
	ErrInvalidViolation    = errors.New("violation must be text, not a number")

	ErrNotVerified = errors.New("plate must be verified before issuing a ticket")
)

// allDigits reports whether s is non-empty and consists solely of ASCII
// digits.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func invalid(sentinel error) error {
	return serrors.Wrap(serrors.ErrValidation, sentinel, "invalid plate data")
}

// ValidatePlate checks the structural grammar of a plate record, stopping at
// the first failure. It is pure: no side effects, no network. Passing it is a
// precondition for submitting the plate to the verification endpoint.
//
// Lengths are counted in runes because the plate letter is a native-script
// character spanning multiple bytes.
func ValidatePlate(p domain.PlateRecord) error {
	if p.RegionPrefix == "" || p.Letter == "" || p.SequenceNumber == "" || p.CityCode == "" {
		return invalid(ErrMissingFields)
	}
	if utf8.RuneCountInString(p.RegionPrefix) != 2 || !allDigits(p.RegionPrefix) {
		return invalid(ErrInvalidPrefix)
	}
	if utf8.RuneCountInString(p.Letter) != 1 || allDigits(p.Letter) {
		return invalid(ErrInvalidLetter)
	}
	if utf8.RuneCountInString(p.SequenceNumber) != 3 || !allDigits(p.SequenceNumber) {
		return invalid(ErrInvalidSequence)
	}
	if utf8.RuneCountInString(p.CityCode) != 2 || !allDigits(p.CityCode) {
		return invalid(ErrInvalidCityCode)
	}

	return nil
}

// ValidateVehicle checks a full vehicle registration: the embedded plate plus
// model, color and year. Same fail-fast discipline as ValidatePlate.
func ValidateVehicle(d domain.VehicleDraft) error {
	if d.Model == "" || d.Color == "" || d.Year == "" {
		return invalid(ErrMissingVehicleFields)
	}
	if err := ValidatePlate(d.Plate); err != nil {
		return err
	}
	if allDigits(d.Model) {
		return invalid(ErrInvalidModel)
	}
	if allDigits(d.Color) {
		return invalid(ErrInvalidColor)
	}
	if utf8.RuneCountInString(d.Year) != 4 || !allDigits(d.Year) {
		return invalid(ErrInvalidYear)
	}

	return nil
}

// ValidateTicketFields checks the fine amount and violation description. The
// violation must not be purely numeric, which guards against an accidental
// amount/description swap.
func ValidateTicketFields(amount, violation string) error {
	if amount == "" || violation == "" {
		return invalid(ErrMissingTicketFields)
	}
	if !allDigits(amount) || strings.Trim(amount, "0") == "" {
		return invalid(ErrInvalidAmount)
	}
	if allDigits(violation) {
		return invalid(ErrInvalidViolation)
	}

	return nil
}
