package domain

import (
	"testing"

	dErrors "assetgov/pkg/domain-errors"
)

// FuzzParseAddress checks that parsing never panics and that every accepted
// address survives a round trip through its hex form.
//
// Justification: addresses arrive from URLs, JSON bodies and token subjects.
func FuzzParseAddress(f *testing.F) {
	f.Add("")
	f.Add("0x0000000000000000000000000000000000000000")
	f.Add("0XABCDEFabcdef0123456789abcdef0123456789")
	f.Add("  0x1111111111111111111111111111111111111111\n")
	f.Add("0x11111111111111111111111111111111111111")
	f.Add("0xzz11111111111111111111111111111111111111")
	f.Add(string([]byte{0x00, 0xff, 0x30, 0x78}))

	f.Fuzz(func(t *testing.T, input string) {
		addr, err := ParseAddress(input)
		if err != nil {
			if dErrors.CodeOf(err) != dErrors.CodeInvalidInput {
				t.Errorf("rejection has code %s", dErrors.CodeOf(err))
			}
			return
		}
		again, err := ParseAddress(addr.Hex())
		if err != nil {
			t.Fatalf("accepted address failed round-trip: %v", err)
		}
		if again != addr {
			t.Error("round-trip changed the address")
		}
	})
}

// FuzzParseVersion checks that accepted versions keep their key through a
// round trip.
//
// Justification: version keys are compared across registries.
func FuzzParseVersion(f *testing.F) {
	f.Add("1.0.0")
	f.Add("v2.10.255")
	f.Add("1.0.256")
	f.Add("1..0")
	f.Add("-1.0.0")

	f.Fuzz(func(t *testing.T, input string) {
		v, err := ParseVersion(input)
		if err != nil {
			return
		}
		again, err := ParseVersion(v.String())
		if err != nil {
			t.Fatalf("accepted version failed round-trip: %v", err)
		}
		if again.Key() != v.Key() {
			t.Error("round-trip changed the version key")
		}
	})
}
