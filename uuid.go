package adscan

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// A UUID is a BLE UUID in the byte order it has on air (little endian).
// It is 2, 4 or 16 bytes long.
type UUID []byte

// UUID16 converts a uint16 (such as 0x181a) to a UUID.
func UUID16(i uint16) UUID {
	return UUID{byte(i), byte(i >> 8)}
}

// Parse parses a 16, 32 or 128 bit UUID in its display form, e.g. "181a" or
// "0000181a-0000-1000-8000-00805f9b34fb".
func Parse(s string) (UUID, error) {
	s = strings.Replace(s, "-", "", -1)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "uuid %q", s)
	}
	switch len(b) {
	case 2, 4, 16:
	default:
		return nil, errors.Errorf("uuid %q: invalid length %v", s, len(b))
	}
	return UUID(Reverse(b)), nil
}

// MustParse parses s or panics.
func MustParse(s string) UUID {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// Len returns the length of the UUID in bytes.
func (u UUID) Len() int {
	return len(u)
}

// Equal reports whether u and v are the same UUID.
func (u UUID) Equal(v UUID) bool {
	return bytes.Equal(u, v)
}

// String returns the UUID most significant byte first; 128 bit UUIDs use the
// dashed 8-4-4-4-12 form.
func (u UUID) String() string {
	r := Reverse(u)
	if len(r) != 16 {
		return hex.EncodeToString(r)
	}
	return fmt.Sprintf("%x-%x-%x-%x-%x", r[:4], r[4:6], r[6:8], r[8:10], r[10:])
}

// Reverse returns a reversed copy of in.
func Reverse(in []byte) []byte {
	a := make([]byte, 0, len(in))
	a = append(a, in...)
	for i := len(a)/2 - 1; i >= 0; i-- {
		opp := len(a) - 1 - i
		a[i], a[opp] = a[opp], a[i]
	}

	return a
}
