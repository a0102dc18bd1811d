package domain

import (
	"fmt"
	"strconv"

	dErrors "assetgov/pkg/domain-errors"
)

// Country is an ISO 3166-1 numeric jurisdiction code. Zero means unknown.
type Country uint16

// ParseCountry accepts the numeric code as a decimal string.
func ParseCountry(s string) (Country, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil || n == 0 || n > 999 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("invalid country code %q", s))
	}
	return Country(n), nil
}

// Valid reports whether c is in the ISO numeric range.
func (c Country) Valid() bool {
	return c > 0 && c <= 999
}

func (c Country) String() string {
	return fmt.Sprintf("%03d", uint16(c))
}
