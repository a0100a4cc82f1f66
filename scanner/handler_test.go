package scanner

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigado/adscan"
	"github.com/rigado/adscan/adv"
	"github.com/rigado/adscan/report"
)

type collector struct {
	entries []*report.Entry
}

func (c *collector) Format(e *report.Entry) error {
	c.entries = append(c.entries, e)
	return nil
}

func newHandler(t *testing.T, opts ...Option) (*Handler, *collector, *test.Hook) {
	t.Helper()
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)

	c := &collector{}
	opts = append([]Option{OptLogger(adscan.NewLogger(logrus.NewEntry(l))), OptFormatter(c)}, opts...)
	h, err := New(opts...)
	require.NoError(t, err)
	return h, c, hook
}

func warnings(hook *test.Hook) []*logrus.Entry {
	var w []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			w = append(w, e)
		}
	}
	return w
}

func TestHandleWellFormed(t *testing.T) {
	h, c, hook := newHandler(t)

	a := &adscan.Advertisement{
		Addr:    adscan.NewAddr("A4:C1:38:E1:EA:50"),
		Payload: []byte{0x02, 0x01, 0x06, 0x05, 0x16, 0x1a, 0x18, 0x01, 0x02},
	}
	require.NoError(t, h.Handle(a))

	require.Len(t, c.entries, 1)
	e := c.entries[0]
	assert.Same(t, a, e.Adv)
	assert.NoError(t, e.Err)
	require.Len(t, e.Elements, 2)
	require.NotNil(t, e.Elements[1].Service)
	assert.Equal(t, []byte{0x01, 0x02}, e.Elements[1].Service.Data)
	assert.Empty(t, warnings(hook))

	assert.Equal(t, Stats{Events: 1, Elements: 2}, h.Stats())
}

func TestHandleMalformed(t *testing.T) {
	h, c, hook := newHandler(t)

	a := &adscan.Advertisement{
		Addr:    adscan.NewAddr("a4:c1:38:e1:ea:50"),
		Payload: []byte{0x02, 0x16, 0xaa, 0x09, 0x09, 'x'},
	}
	require.NoError(t, h.Handle(a))

	require.Len(t, c.entries, 1)
	var me *adv.MalformedElement
	require.True(t, errors.As(c.entries[0].Err, &me))
	assert.Equal(t, adv.MalformedElement{Length: 9, Remaining: 3, Offset: 3}, *me)

	w := warnings(hook)
	require.Len(t, w, 2)
	for _, e := range w {
		assert.Equal(t, "a4:c1:38:e1:ea:50", e.Data["addr"])
	}
	assert.Contains(t, w[0].Message, "malformed element")
	assert.Contains(t, w[1].Message, "malformed service data")

	assert.Equal(t, Stats{Events: 1, Elements: 1, MalformedElements: 1, MalformedServices: 1}, h.Stats())
}

func TestHandleEmptyPayload(t *testing.T) {
	h, c, _ := newHandler(t)

	require.NoError(t, h.Handle(&adscan.Advertisement{}))
	require.Len(t, c.entries, 1)
	assert.Empty(t, c.entries[0].Elements)
	assert.NoError(t, c.entries[0].Err)
}

func TestHandleFilter(t *testing.T) {
	h, c, _ := newHandler(t, OptFilter("A4:C1:38:*"))

	for _, addr := range []string{"a4:c1:38:00:00:01", "11:22:33:44:55:66", ""} {
		a := &adscan.Advertisement{Payload: []byte{0x02, 0x01, 0x06}}
		if addr != "" {
			a.Addr = adscan.NewAddr(addr)
		}
		require.NoError(t, h.Handle(a))
	}

	require.Len(t, c.entries, 1)
	assert.Equal(t, "a4:c1:38:00:00:01", c.entries[0].Adv.Addr.String())
	assert.Equal(t, 2, h.Stats().Filtered)
	assert.Equal(t, 3, h.Stats().Events)
}

func TestHandleAdvFilter(t *testing.T) {
	h, c, _ := newHandler(t, OptAdvFilter(func(a *adscan.Advertisement) bool {
		return a.RSSI != nil && *a.RSSI > -80
	}))

	near, far := -50, -90
	require.NoError(t, h.Handle(&adscan.Advertisement{RSSI: &near}))
	require.NoError(t, h.Handle(&adscan.Advertisement{RSSI: &far}))

	require.Len(t, c.entries, 1)
	assert.Equal(t, -50, *c.entries[0].Adv.RSSI)
}

func TestHandleTooLong(t *testing.T) {
	h, c, _ := newHandler(t, OptMaxLength(adv.MaxLegacyLength))

	err := h.Handle(&adscan.Advertisement{Payload: make([]byte, adv.MaxLegacyLength+1)})
	assert.True(t, errors.Is(err, ErrPayloadTooLong))
	assert.Empty(t, c.entries)
	assert.Equal(t, 1, h.Stats().Rejected)

	_, err = New(OptMaxLength(adv.MaxExtendedLength + 1))
	assert.Error(t, err)
}

func TestHandleTooLongFiltered(t *testing.T) {
	h, c, hook := newHandler(t, OptFilter("a4:*"), OptMaxLength(adv.MaxLegacyLength))

	err := h.Handle(&adscan.Advertisement{
		Addr:    adscan.NewAddr("11:22:33:44:55:66"),
		Payload: make([]byte, adv.MaxLegacyLength+1),
	})
	require.NoError(t, err)
	assert.Empty(t, c.entries)
	assert.Empty(t, warnings(hook))
	assert.Equal(t, Stats{Events: 1, Filtered: 1}, h.Stats())
}

func TestHandleBackfill(t *testing.T) {
	p, err := adv.NewPacket(
		adv.Flags(0x06),
		adv.CompleteName("thermo"),
		adv.TxPower(-4),
		adv.Appearance(0x0300),
		adv.ServiceData16(0x181a, []byte{0x01}),
	)
	require.NoError(t, err)

	h, _, _ := newHandler(t)
	a := &adscan.Advertisement{Payload: p.Bytes()}
	require.NoError(t, h.Handle(a))

	assert.Equal(t, "thermo", a.Name)
	require.NotNil(t, a.TxPower)
	assert.Equal(t, -4, *a.TxPower)
	require.NotNil(t, a.Appearance)
	assert.Equal(t, uint16(0x0300), *a.Appearance)
	require.Len(t, a.ServiceData, 1)
	assert.True(t, a.ServiceData[0].UUID.Equal(adscan.UUID16(0x181a)))

	// engine fields win
	h, _, _ = newHandler(t)
	b := &adscan.Advertisement{Name: "engine", Payload: p.Bytes()}
	require.NoError(t, h.Handle(b))
	assert.Equal(t, "engine", b.Name)

	h, _, _ = newHandler(t, OptBackfill(false))
	c := &adscan.Advertisement{Payload: p.Bytes()}
	require.NoError(t, h.Handle(c))
	assert.Empty(t, c.Name)
	assert.Nil(t, c.TxPower)
}

func TestHandleFormatError(t *testing.T) {
	h, err := New(
		OptLogger(adscan.NewLogger(logrus.NewEntry(logrus.New()))),
		OptFormatter(report.FormatterFunc(func(*report.Entry) error {
			return errors.New("disk full")
		})),
	)
	require.NoError(t, err)

	err = h.Handle(&adscan.Advertisement{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format: disk full")
}

func TestHandleText(t *testing.T) {
	var buf bytes.Buffer
	h, err := New(OptLogger(adscan.NewLogger(logrus.NewEntry(logrus.New()))), OptFormatter(report.NewText(&buf)))
	require.NoError(t, err)

	require.NoError(t, h.Handle(&adscan.Advertisement{
		Addr:    adscan.NewAddr("a4:c1:38:e1:ea:50"),
		Payload: []byte{0x02, 0x01, 0x06},
	}))
	assert.Equal(t, "[a4:c1:38:e1:ea:50] \n    2 0x01 06\n", buf.String())
}

func TestNilLogger(t *testing.T) {
	_, err := New(OptLogger(nil))
	assert.Error(t, err)
}
