package adv

import (
	"fmt"

	"github.com/rigado/adscan"
)

// Element is one AD structure of an advertising payload.
type Element struct {
	// Length is the declared length: the type byte plus the body.
	Length int
	Type   byte
	// Data is the body, Length-1 bytes. It is a copy of the payload bytes.
	Data []byte

	// Service is set for service data types when the body holds a UUID.
	Service *ServiceData
	// Err is a *MalformedService when a service data body is too short.
	Err error
}

// IsServiceData reports whether the element has a service data type.
func (e Element) IsServiceData() bool {
	_, ok := serviceDataUUIDSz[e.Type]
	return ok
}

// ServiceData is the body of a service data element split into the service
// UUID and the service specific bytes.
type ServiceData struct {
	UUID adscan.UUID
	Data []byte
}

// MalformedElement is returned by Decode when a length byte is zero or
// points past the end of the payload. Decoding stops there.
type MalformedElement struct {
	// Length is the declared length.
	Length int
	// Remaining is the number of bytes from the length byte to the end of the payload.
	Remaining int
	// Offset is the index of the length byte.
	Offset int
}

func (e *MalformedElement) Error() string {
	return fmt.Sprintf("malformed element at idx %v: length %v, remaining %v", e.Offset, e.Length, e.Remaining)
}

// MalformedService is set on a service data element whose body is too short
// to hold the service UUID. It does not stop decoding.
type MalformedService struct {
	// Length is the length of the body.
	Length int
	// Want is the width of the UUID.
	Want int
}

func (e *MalformedService) Error() string {
	return fmt.Sprintf("malformed service data: length %v, want at least %v", e.Length, e.Want)
}
