package adv

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/rigado/adscan"
)

// Packet is an advertising payload, either crafted from fields or parsed
// from raw bytes. Refer to Supplement to Bluetooth Core Specification | CSSv6, Part A.
type Packet struct {
	b     []byte
	max   int
	elems []Element
}

// Bytes returns the bytes of the packet.
func (p *Packet) Bytes() []byte {
	return p.b
}

// Len returns the length of the packet.
func (p *Packet) Len() int {
	return len(p.b)
}

// Elements returns the decoded AD structures of the packet.
func (p *Packet) Elements() []Element {
	return p.elems
}

// NewPacket returns a new legacy advertising Packet of at most 31 bytes.
func NewPacket(fields ...Field) (*Packet, error) {
	return newPacket(MaxLegacyLength, fields)
}

// NewExtendedPacket returns a new extended advertising Packet of at most 255 bytes.
func NewExtendedPacket(fields ...Field) (*Packet, error) {
	return newPacket(MaxExtendedLength, fields)
}

func newPacket(max int, fields []Field) (*Packet, error) {
	p := &Packet{b: make([]byte, 0, max), max: max}
	for _, f := range fields {
		if err := p.Append(f); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Parse decodes pdu into a Packet. On a malformed element the packet holds
// the elements before it and the returned error wraps the *MalformedElement.
func Parse(pdu []byte) (*Packet, error) {
	b := make([]byte, len(pdu))
	copy(b, pdu)

	elems, err := Decode(b)
	p := &Packet{b: b, max: MaxExtendedLength, elems: elems}
	if err != nil {
		return p, errors.Wrap(err, "pdu decode")
	}
	return p, nil
}

// Field is an advertising field which can be appended to a packet.
type Field func(p *Packet) error

// Append appends a field to the packet. It returns ErrNotFit if the field
// doesn't fit into the packet, and leaves the packet intact.
func (p *Packet) Append(f Field) error {
	if err := f(p); err != nil {
		return err
	}
	p.elems, _ = Decode(p.b)
	return nil
}

func (p *Packet) append(typ byte, b []byte) error {
	if p.Len()+1+1+len(b) > p.max {
		return ErrNotFit
	}
	p.b = append(p.b, byte(len(b)+1))
	p.b = append(p.b, typ)
	p.b = append(p.b, b...)
	return nil
}

// Raw appends the bytes to the current packet.
// This is helpful for creating new packet from existing packets.
func Raw(b []byte) Field {
	return func(p *Packet) error {
		if p.Len()+len(b) > p.max {
			return ErrNotFit
		}
		p.b = append(p.b, b...)
		return nil
	}
}

// Flags is a flags.
func Flags(f byte) Field {
	return func(p *Packet) error {
		return p.append(TypeFlags, []byte{f})
	}
}

// ShortName is a short local name.
func ShortName(n string) Field {
	return func(p *Packet) error {
		return p.append(TypeShortName, []byte(n))
	}
}

// CompleteName is a compelete local name.
func CompleteName(n string) Field {
	return func(p *Packet) error {
		return p.append(TypeCompleteName, []byte(n))
	}
}

// TxPower is the transmit power level in dBm.
func TxPower(pwr int8) Field {
	return func(p *Packet) error {
		return p.append(TypeTxPower, []byte{byte(pwr)})
	}
}

// Appearance is the GAP appearance value.
func Appearance(a uint16) Field {
	return func(p *Packet) error {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, a)
		return p.append(TypeAppearance, b)
	}
}

// ManufacturerData is manufacturer specific data.
func ManufacturerData(id uint16, b []byte) Field {
	return func(p *Packet) error {
		d := append([]byte{uint8(id), uint8(id >> 8)}, b...)
		return p.append(TypeManufacturer, d)
	}
}

// AllUUID is one of the complete service UUID list.
func AllUUID(u adscan.UUID) Field {
	return func(p *Packet) error {
		switch u.Len() {
		case 2:
			return p.append(TypeAllUUID16, u)
		case 4:
			return p.append(TypeAllUUID32, u)
		}
		return p.append(TypeAllUUID128, u)
	}
}

// SomeUUID is one of the incomplete service UUID list.
func SomeUUID(u adscan.UUID) Field {
	return func(p *Packet) error {
		switch u.Len() {
		case 2:
			return p.append(TypeSomeUUID16, u)
		case 4:
			return p.append(TypeSomeUUID32, u)
		}
		return p.append(TypeSomeUUID128, u)
	}
}

// ServiceData16 is service data for a 16bit service uuid.
func ServiceData16(id uint16, b []byte) Field {
	return ServiceDataUUID(adscan.UUID16(id), b)
}

// ServiceDataUUID is service data for the service uuid u; the element type
// follows the length of u.
func ServiceDataUUID(u adscan.UUID, b []byte) Field {
	return func(p *Packet) error {
		d := append(append([]byte{}, u...), b...)
		switch u.Len() {
		case 2:
			return p.append(TypeServiceData16, d)
		case 4:
			return p.append(TypeServiceData32, d)
		case 16:
			return p.append(TypeServiceData128, d)
		}
		return errors.Errorf("invalid service uuid length %v", u.Len())
	}
}

// find returns the body of the first element of one of the given types.
func (p *Packet) find(types ...byte) ([]byte, bool) {
	for _, e := range p.elems {
		for _, t := range types {
			if e.Type == t {
				return e.Data, true
			}
		}
	}
	return nil, false
}

// Flags returns the flags of the packet.
func (p *Packet) Flags() (flags byte, present bool) {
	if b, ok := p.find(TypeFlags); ok && len(b) > 0 {
		return b[0], true
	}
	return 0, false
}

// LocalName returns the CompleteName, or the ShortName if only that presents.
func (p *Packet) LocalName() string {
	if b, ok := p.find(TypeCompleteName); ok {
		return string(b)
	}
	if b, ok := p.find(TypeShortName); ok {
		return string(b)
	}
	return ""
}

// TxPower returns the TxPower, if it presents.
func (p *Packet) TxPower() (power int, present bool) {
	if b, ok := p.find(TypeTxPower); ok && len(b) > 0 {
		return int(int8(b[0])), true
	}
	return 0, false
}

// Appearance returns the appearance, if it presents.
func (p *Packet) Appearance() (appearance uint16, present bool) {
	if b, ok := p.find(TypeAppearance); ok && len(b) >= 2 {
		return binary.LittleEndian.Uint16(b), true
	}
	return 0, false
}

// ManufacturerData returns the ManufacturerData field if it presents.
// The first two bytes are the company identifier.
func (p *Packet) ManufacturerData() []byte {
	b, _ := p.find(TypeManufacturer)
	return b
}

// UUIDs returns a list of service UUIDs.
func (p *Packet) UUIDs() []adscan.UUID {
	var u []adscan.UUID
	for _, e := range p.elems {
		switch e.Type {
		case TypeSomeUUID16, TypeAllUUID16:
			u = uuidList(u, e.Data, 2)
		case TypeSomeUUID32, TypeAllUUID32:
			u = uuidList(u, e.Data, 4)
		case TypeSomeUUID128, TypeAllUUID128:
			u = uuidList(u, e.Data, 16)
		}
	}
	return u
}

// ServiceSol returns a list of solicited service UUIDs.
func (p *Packet) ServiceSol() []adscan.UUID {
	var u []adscan.UUID
	for _, e := range p.elems {
		switch e.Type {
		case TypeSol16:
			u = uuidList(u, e.Data, 2)
		case TypeSol32:
			u = uuidList(u, e.Data, 4)
		case TypeSol128:
			u = uuidList(u, e.Data, 16)
		}
	}
	return u
}

// ServiceData returns the well formed service data elements.
func (p *Packet) ServiceData() []adscan.ServiceData {
	var s []adscan.ServiceData
	for _, e := range p.elems {
		if e.Service != nil {
			s = append(s, adscan.ServiceData{UUID: e.Service.UUID, Data: e.Service.Data})
		}
	}
	return s
}

// Utility function for creating a list of uuids. Trailing bytes short of a
// full uuid are dropped.
func uuidList(u []adscan.UUID, d []byte, w int) []adscan.UUID {
	for len(d) >= w {
		u = append(u, adscan.UUID(d[:w]))
		d = d[w:]
	}
	return u
}
