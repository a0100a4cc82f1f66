package scanner

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/ryanuber/go-glob"

	"github.com/rigado/adscan"
	"github.com/rigado/adscan/adv"
	"github.com/rigado/adscan/report"
)

// An Option is a configuration function, which configures the handler.
type Option func(*Handler) error

// OptLogger sets the logger. It defaults to adscan.GetLogger().
func OptLogger(l adscan.Logger) Option {
	return func(h *Handler) error {
		if l == nil {
			return errors.New("nil logger")
		}
		h.log = l
		return nil
	}
}

// OptFilter only passes advertisements whose address matches the glob
// pattern, e.g. "a4:c1:38:*". An empty pattern passes everything.
func OptFilter(pattern string) Option {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	return func(h *Handler) error {
		if pattern == "" {
			h.filter = nil
			return nil
		}
		h.filter = func(a *adscan.Advertisement) bool {
			return a.Addr != nil && glob.Glob(pattern, a.Addr.String())
		}
		return nil
	}
}

// OptAdvFilter only passes advertisements for which f returns true.
func OptAdvFilter(f adscan.AdvFilter) Option {
	return func(h *Handler) error {
		h.filter = f
		return nil
	}
}

// OptFormatter sets where decoded advertisements are written to.
func OptFormatter(f report.Formatter) Option {
	return func(h *Handler) error {
		h.formatter = f
		return nil
	}
}

// OptBackfill enables filling fields the scan engine did not report from
// the decoded payload.
func OptBackfill(on bool) Option {
	return func(h *Handler) error {
		h.backfill = on
		return nil
	}
}

// OptMaxLength sets the longest accepted payload, adv.MaxLegacyLength or
// adv.MaxExtendedLength.
func OptMaxLength(n int) Option {
	return func(h *Handler) error {
		if n < 0 || n > adv.MaxExtendedLength {
			return errors.Errorf("invalid max payload length %v", n)
		}
		h.maxLen = n
		return nil
	}
}
