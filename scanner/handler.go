// Package scanner turns advertising events from a scan engine into decoded
// reports.
package scanner

import (
	"github.com/pkg/errors"

	"github.com/rigado/adscan"
	"github.com/rigado/adscan/adv"
	"github.com/rigado/adscan/report"
)

// ErrPayloadTooLong is returned by Handle for payloads over the length limit.
var ErrPayloadTooLong = errors.New("payload too long")

// Stats counts what a Handler has seen.
type Stats struct {
	Events            int
	Rejected          int
	Filtered          int
	Elements          int
	MalformedElements int
	MalformedServices int
}

// Handler decodes advertising events one at a time. It is not safe for
// concurrent use; the scan engine delivers events serially.
type Handler struct {
	log       adscan.Logger
	filter    adscan.AdvFilter
	formatter report.Formatter
	backfill  bool
	maxLen    int

	stats Stats
}

// New returns a Handler. By default it accepts extended payloads, back-fills
// missing fields and has no formatter.
func New(opts ...Option) (*Handler, error) {
	h := &Handler{
		log:      adscan.GetLogger(),
		backfill: true,
		maxLen:   adv.MaxExtendedLength,
	}

	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// Stats returns the counters so far.
func (h *Handler) Stats() Stats {
	return h.stats
}

// Handle decodes the payload of a and passes the result to the formatter.
// Malformed elements and service data are logged and reported; they are not
// returned as errors. With back-fill on, a is updated in place.
func (h *Handler) Handle(a *adscan.Advertisement) error {
	h.stats.Events++

	log := h.log
	if a.Addr != nil {
		log = log.ChildLogger(map[string]interface{}{"addr": a.Addr.String()})
	}

	if h.filter != nil && !h.filter(a) {
		h.stats.Filtered++
		return nil
	}

	if len(a.Payload) > h.maxLen {
		h.stats.Rejected++
		return errors.Wrapf(ErrPayloadTooLong, "want at most %v, have %v", h.maxLen, len(a.Payload))
	}

	p, err := adv.Parse(a.Payload)
	elems := p.Elements()
	h.stats.Elements += len(elems)

	var me *adv.MalformedElement
	if errors.As(err, &me) {
		h.stats.MalformedElements++
		log.Warnf("malformed element: length %v, remaining %v, idx %v", me.Length, me.Remaining, me.Offset)
	}

	for _, e := range elems {
		var ms *adv.MalformedService
		if errors.As(e.Err, &ms) {
			h.stats.MalformedServices++
			log.Warnf("malformed service data: type 0x%02x, length %v", e.Type, ms.Length)
		}
	}

	if h.backfill {
		backfill(a, p)
	}

	log.Debugf("decoded %v elements from %v bytes", len(elems), len(a.Payload))

	if h.formatter == nil {
		return nil
	}

	return errors.Wrap(h.formatter.Format(&report.Entry{Adv: a, Elements: elems, Err: err}), "format")
}

// backfill sets the fields of a that the scan engine left empty.
func backfill(a *adscan.Advertisement, p *adv.Packet) {
	if a.Name == "" {
		a.Name = p.LocalName()
	}
	if a.TxPower == nil {
		if pwr, ok := p.TxPower(); ok {
			a.TxPower = &pwr
		}
	}
	if a.Appearance == nil {
		if app, ok := p.Appearance(); ok {
			a.Appearance = &app
		}
	}
	if len(a.ManufacturerData) == 0 {
		a.ManufacturerData = p.ManufacturerData()
	}
	if len(a.Services) == 0 {
		a.Services = p.UUIDs()
	}
	if len(a.ServiceData) == 0 {
		a.ServiceData = p.ServiceData()
	}
}
