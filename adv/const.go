package adv

import "github.com/pkg/errors"

// MaxLegacyLength is the maximum length of a legacy advertising payload.
// MaxExtendedLength is the maximum length of an extended advertising payload.
const (
	MaxLegacyLength   = 31
	MaxExtendedLength = 255
)

// Advertising data types.
// https://www.bluetooth.com/specifications/assigned-numbers/generic-access-profile
const (
	TypeFlags          byte = 0x01
	TypeSomeUUID16     byte = 0x02
	TypeAllUUID16      byte = 0x03
	TypeSomeUUID32     byte = 0x04
	TypeAllUUID32      byte = 0x05
	TypeSomeUUID128    byte = 0x06
	TypeAllUUID128     byte = 0x07
	TypeShortName      byte = 0x08
	TypeCompleteName   byte = 0x09
	TypeTxPower        byte = 0x0a
	TypeSol16          byte = 0x14
	TypeSol128         byte = 0x15
	TypeServiceData16  byte = 0x16
	TypeAppearance     byte = 0x19
	TypeSol32          byte = 0x1f
	TypeServiceData32  byte = 0x20
	TypeServiceData128 byte = 0x21
	TypeManufacturer   byte = 0xff
)

var typeNames = map[byte]string{
	TypeFlags:          "Flags",
	TypeSomeUUID16:     "Incomplete List of 16-bit Service Class UUIDs",
	TypeAllUUID16:      "Complete List of 16-bit Service Class UUIDs",
	TypeSomeUUID32:     "Incomplete List of 32-bit Service Class UUIDs",
	TypeAllUUID32:      "Complete List of 32-bit Service Class UUIDs",
	TypeSomeUUID128:    "Incomplete List of 128-bit Service Class UUIDs",
	TypeAllUUID128:     "Complete List of 128-bit Service Class UUIDs",
	TypeShortName:      "Shortened Local Name",
	TypeCompleteName:   "Complete Local Name",
	TypeTxPower:        "Tx Power Level",
	TypeSol16:          "List of 16-bit Service Solicitation UUIDs",
	TypeSol128:         "List of 128-bit Service Solicitation UUIDs",
	TypeServiceData16:  "Service Data - 16-bit UUID",
	TypeAppearance:     "Appearance",
	TypeSol32:          "List of 32-bit Service Solicitation UUIDs",
	TypeServiceData32:  "Service Data - 32-bit UUID",
	TypeServiceData128: "Service Data - 128-bit UUID",
	TypeManufacturer:   "Manufacturer Specific Data",
}

// TypeName returns the assigned name of an advertising data type, or "" if
// the type is not known.
func TypeName(t byte) string {
	return typeNames[t]
}

// ErrNotFit is returned when a field does not fit into the packet.
var ErrNotFit = errors.New("field does not fit into the packet")
