package report

import (
	"encoding/hex"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/rigado/adscan"
	"github.com/rigado/adscan/adv"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSON writes one JSON object per entry: the advertisement keyed by
// adscan.AdvertisementMapKeys plus the decoded elements and, when decoding
// stopped early, the malformed element.
type JSON struct {
	enc *jsoniter.Encoder
}

// NewJSON returns a JSON formatter writing to w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{enc: json.NewEncoder(w)}
}

type jsonServiceData struct {
	UUID string `json:"uuid"`
	Data string `json:"data"`
}

type jsonMalformedService struct {
	Length int `json:"length"`
	Want   int `json:"want"`
}

type jsonElement struct {
	Length    int                   `json:"length"`
	Type      string                `json:"type"`
	Name      string                `json:"name,omitempty"`
	Data      string                `json:"data"`
	Service   *jsonServiceData      `json:"service,omitempty"`
	Malformed *jsonMalformedService `json:"malformedService,omitempty"`
}

type jsonMalformedElement struct {
	Length    int `json:"length"`
	Remaining int `json:"remaining"`
	Offset    int `json:"offset"`
}

func (j *JSON) Format(e *Entry) error {
	a := e.Adv
	if a == nil {
		a = &adscan.Advertisement{}
	}

	keys := adscan.AdvertisementMapKeys
	m := a.ToMap()

	elems := make([]jsonElement, 0, len(e.Elements))
	for _, el := range e.Elements {
		je := jsonElement{
			Length: el.Length,
			Type:   fmt.Sprintf("0x%02x", el.Type),
			Name:   adv.TypeName(el.Type),
			Data:   hex.EncodeToString(el.Data),
		}
		if el.Service != nil {
			je.Service = &jsonServiceData{UUID: el.Service.UUID.String(), Data: hex.EncodeToString(el.Service.Data)}
		}
		var ms *adv.MalformedService
		if errors.As(el.Err, &ms) {
			je.Malformed = &jsonMalformedService{Length: ms.Length, Want: ms.Want}
		}
		elems = append(elems, je)
	}
	m[keys.Elements] = elems

	var me *adv.MalformedElement
	if errors.As(e.Err, &me) {
		m[keys.Malformed] = jsonMalformedElement{Length: me.Length, Remaining: me.Remaining, Offset: me.Offset}
	}

	return j.enc.Encode(m)
}
