package domain

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"

	dErrors "assetgov/pkg/domain-errors"
)

// Version is an ordered (major, minor, patch) triple. The system never
// increments versions; they are opaque keys chosen by administrators.
type Version struct {
	Major uint8
	Minor uint8
	Patch uint8
}

// VersionKey is the bit-level identity of a Version. Two registries agree on a
// version iff their keys are equal, independent of which registry stored it.
type VersionKey [32]byte

// ParseVersion parses "major.minor.patch". Each component must fit in a byte.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(s), "v"), ".")
	if len(parts) != 3 {
		return Version{}, dErrors.New(dErrors.CodeInvalidInput, "version must have the form major.minor.patch")
	}
	var out [3]uint8
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return Version{}, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("invalid version component %q", p))
		}
		out[i] = uint8(n)
	}
	return Version{Major: out[0], Minor: out[1], Patch: out[2]}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare orders versions lexicographically: -1 if v < o, 0 if equal, 1 if v > o.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpUint8(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpUint8(v.Minor, o.Minor)
	default:
		return cmpUint8(v.Patch, o.Patch)
	}
}

// Key hashes the packed triple.
func (v Version) Key() VersionKey {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte{v.Major, v.Minor, v.Patch})
	var k VersionKey
	copy(k[:], h.Sum(nil))
	return k
}

// MarshalText renders the dotted form.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText accepts the dotted form.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func cmpUint8(a, b uint8) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
