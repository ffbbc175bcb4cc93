package domain

import (
	"bytes"
	"fmt"
	"strconv"
)

// Money is a monetary amount in rials. The backend serializes decimal columns
// inconsistently, sometimes as JSON numbers and sometimes as numeric strings
// like "50000.00"; both decode to a plain integer amount here. Fractions are
// truncated because the currency has no sub-unit in practice.
type Money int64

// UnmarshalJSON accepts numbers, numeric strings and null.
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = 0

		return nil
	}
	if i := bytes.IndexByte(b, '.'); i >= 0 {
		b = b[:i]
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("could not parse amount %q: %w", b, err)
	}
	*m = Money(n)

	return nil
}

// MarshalJSON always emits a plain number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(m), 10)), nil
}
