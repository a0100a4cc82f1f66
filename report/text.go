package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/rigado/adscan"
	"github.com/rigado/adscan/adv"
)

// Text writes entries in the console layout of the ESP32 scanner:
//
//	[a4:c1:38:e1:ea:50]  ATC_E1EA50 RSSI=-70
//	    2 0x01 06
//	   16 0x16 181a a4c138e1ea50
//	  Malformed Block: Length=9 RemainingDataLength=3
type Text struct {
	w *bufio.Writer

	// TypeNames appends the assigned name of each element type.
	TypeNames bool
}

// NewText returns a Text formatter writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: bufio.NewWriter(w)}
}

func (t *Text) Format(e *Entry) error {
	a := e.Adv
	if a == nil {
		a = &adscan.Advertisement{}
	}

	t.header(a)
	for _, el := range e.Elements {
		t.element(el)
	}

	var me *adv.MalformedElement
	if errors.As(e.Err, &me) {
		fmt.Fprintf(t.w, "  Malformed Block: Length=%d RemainingDataLength=%d\n", me.Length, me.Remaining)
	} else if e.Err != nil {
		fmt.Fprintf(t.w, "  Error: %v\n", e.Err)
	}

	if len(a.Services) > 0 {
		fmt.Fprintf(t.w, "  Services(%d):\n", len(a.Services))
		for _, s := range lo.Map(a.Services, func(u adscan.UUID, _ int) string { return u.String() }) {
			fmt.Fprintf(t.w, "    %s\n", s)
		}
	}

	if len(a.ServiceData) > 0 {
		fmt.Fprintf(t.w, "  ServiceData(%d):\n", len(a.ServiceData))
		for _, sd := range a.ServiceData {
			fmt.Fprintf(t.w, "    %s %3d %x\n", sd.UUID, len(sd.Data), sd.Data)
		}
	}

	return t.w.Flush()
}

func (t *Text) header(a *adscan.Advertisement) {
	addr := "?"
	if a.Addr != nil {
		addr = a.Addr.String()
	}
	fmt.Fprintf(t.w, "[%s] ", addr)
	if a.Name != "" {
		fmt.Fprintf(t.w, " %10s", a.Name)
	}
	if a.RSSI != nil {
		fmt.Fprintf(t.w, " RSSI=%d", *a.RSSI)
	}
	if a.TxPower != nil {
		fmt.Fprintf(t.w, " TXP=%d", *a.TxPower)
	}
	if a.Appearance != nil {
		fmt.Fprintf(t.w, " App=0x%04x", *a.Appearance)
	}
	if len(a.ManufacturerData) > 0 {
		fmt.Fprintf(t.w, " %x", a.ManufacturerData)
	}
	fmt.Fprintln(t.w)
}

func (t *Text) element(el adv.Element) {
	fmt.Fprintf(t.w, "  %3d 0x%02x ", el.Length, el.Type)

	var ms *adv.MalformedService
	switch {
	case el.Service != nil:
		fmt.Fprintf(t.w, "%s %x", el.Service.UUID, el.Service.Data)
	case errors.As(el.Err, &ms):
		fmt.Fprintf(t.w, "MalFormed Service length=%d: %x", ms.Length, el.Data)
	default:
		fmt.Fprintf(t.w, "%x", el.Data)
	}

	if t.TypeNames {
		if n := adv.TypeName(el.Type); n != "" {
			fmt.Fprintf(t.w, " (%s)", n)
		}
	}
	fmt.Fprintln(t.w)
}
