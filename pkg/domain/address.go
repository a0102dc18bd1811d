package domain

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	dErrors "assetgov/pkg/domain-errors"
)

// AddressLength is the byte length of a component or principal address.
const AddressLength = 20

// Address identifies a principal, a deployed component or a piece of
// implementation code in the ledger address space.
// Invariant: the zero value is the null address and never identifies anything.
type Address [AddressLength]byte

// ZeroAddress is the null sentinel.
var ZeroAddress = Address{}

// ParseAddress parses a 0x-prefixed, 40 hex digit address.
// The null address is accepted; callers that require a real address check IsZero.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	raw, ok := strings.CutPrefix(s, "0x")
	if !ok {
		raw, ok = strings.CutPrefix(s, "0X")
	}
	if !ok || len(raw) != 2*AddressLength {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address must be 0x followed by 40 hex digits")
	}
	var a Address
	if _, err := hex.Decode(a[:], []byte(raw)); err != nil {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address contains non-hex characters")
	}
	return a, nil
}

// MustParseAddress is ParseAddress for constants and tests.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsZero reports whether a is the null address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Hex returns the lowercase 0x-prefixed form.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) String() string {
	return a.Hex()
}

// MarshalText implements encoding.TextMarshaler so addresses travel as hex in JSON and YAML.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// DeriveAddress hashes the parts with Keccak-256 and keeps the trailing 20
// bytes. Each part is preceded by its uvarint length, so moving bytes from one
// part to the next always changes the result. The same inputs reproduce the
// same address in every environment.
func DeriveAddress(parts ...[]byte) Address {
	h := sha3.NewLegacyKeccak256()
	var prefix [binary.MaxVarintLen64]byte
	for _, p := range parts {
		n := binary.PutUvarint(prefix[:], uint64(len(p)))
		_, _ = h.Write(prefix[:n])
		_, _ = h.Write(p)
	}
	sum := h.Sum(nil)
	var a Address
	copy(a[:], sum[len(sum)-AddressLength:])
	return a
}

// NamedAddress derives a stable address from a human label. Used for
// bootstrap principals and built-in code so configuration can refer to them by name.
func NamedAddress(label string) Address {
	return DeriveAddress([]byte("named"), []byte(label))
}
