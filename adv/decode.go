package adv

// uuid width of the service data types
var serviceDataUUIDSz = map[byte]int{
	TypeServiceData16:  2,
	TypeServiceData32:  4,
	TypeServiceData128: 16,
}

// Decode splits an advertising payload into its AD structures.
//
// Elements are returned in payload order. When a length byte is zero or runs
// past the end of pdu, Decode returns the elements before it together with a
// *MalformedElement; there is no framing to resynchronize on, so the rest of
// the payload is not trusted. Service data bodies that are too short carry a
// *MalformedService in Element.Err and decoding continues.
//
// pdu is not modified or retained.
func Decode(pdu []byte) ([]Element, error) {
	var elems []Element

	for i := 0; i < len(pdu); {
		//length @ offset 0
		//type @ offset 1
		//data @ 2 - length
		length := int(pdu[i])

		//length covers the type byte, so at least 1; and it must fit
		if length < 1 || i+1+length > len(pdu) {
			return elems, &MalformedElement{Length: length, Remaining: len(pdu) - i, Offset: i}
		}

		typ := pdu[i+1]
		start := i + 2
		end := i + 1 + length
		data := make([]byte, end-start)
		copy(data, pdu[start:end])

		e := Element{Length: length, Type: typ, Data: data}
		if sz, ok := serviceDataUUIDSz[typ]; ok {
			e.Service, e.Err = decodeServiceData(data, sz)
		}
		elems = append(elems, e)

		i = end
	}

	return elems, nil
}

// DecodeServiceData splits the body of a 16-bit UUID service data element.
func DecodeServiceData(body []byte) (*ServiceData, error) {
	return decodeServiceData(body, serviceDataUUIDSz[TypeServiceData16])
}

func decodeServiceData(body []byte, sz int) (*ServiceData, error) {
	if len(body) < sz {
		return nil, &MalformedService{Length: len(body), Want: sz}
	}

	sd := &ServiceData{
		UUID: make([]byte, sz),
		Data: make([]byte, len(body)-sz),
	}
	copy(sd.UUID, body[:sz])
	copy(sd.Data, body[sz:])
	return sd, nil
}
