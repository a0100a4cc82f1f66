package adscan

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// Addr represents the address of an advertising device.
// It's the MAC address as reported by the scan engine.
type Addr interface {
	String() string
	Bytes() []byte
}

var addrReplacer = strings.NewReplacer("-", ":", ".", ":")

// NewAddr creates an Addr from string. The string is lower cased and
// '-' or '.' separators are replaced with ':'.
func NewAddr(s string) Addr {
	return addr(addrReplacer.Replace(strings.ToLower(strings.TrimSpace(s))))
}

// ParseAddr creates an Addr from string and checks that it holds six octets.
func ParseAddr(s string) (Addr, error) {
	a := NewAddr(s)
	b := a.Bytes()
	if b == nil {
		return nil, errors.Errorf("invalid address %q", s)
	}
	if len(b) != 6 {
		return nil, errors.Errorf("address %q: want 6 octets, have %v", s, len(b))
	}
	return a, nil
}

type addr string

func (a addr) String() string {
	return string(a)
}

// Bytes returns the octets of the address, or nil if it is not hex.
func (a addr) Bytes() []byte {
	hexStr := strings.Replace(a.String(), ":", "", -1)

	out, err := hex.DecodeString(hexStr)
	if err != nil || len(out) == 0 {
		return nil
	}

	return out
}
