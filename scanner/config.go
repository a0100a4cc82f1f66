package scanner

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/rigado/adscan"
	"github.com/rigado/adscan/adv"
	"github.com/rigado/adscan/report"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var formats = []string{FormatText, FormatJSON}

// Config is the file form of the scanner settings.
type Config struct {
	Filter    string       `yaml:"filter"`
	Format    string       `yaml:"format"`
	Legacy    bool         `yaml:"legacy"`
	Backfill  bool         `yaml:"backfill"`
	TypeNames bool         `yaml:"type-names"`
	LogLevel  string       `yaml:"log-level"`
	Serial    SerialConfig `yaml:"serial"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Format:   FormatText,
		Backfill: true,
		LogLevel: "info",
		Serial:   SerialConfig{Baud: DefaultBaud},
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys missing from the
// file keep their defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "read config")
	}

	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, errors.Wrapf(err, "parse config %v", path)
	}

	return c, c.Validate()
}

// Validate checks the values that have a fixed set of choices.
func (c Config) Validate() error {
	if !lo.Contains(formats, c.Format) {
		return errors.Errorf("invalid format %q, want one of %v", c.Format, formats)
	}
	return nil
}

// MaxLength returns the payload limit selected by Legacy.
func (c Config) MaxLength() int {
	if c.Legacy {
		return adv.MaxLegacyLength
	}
	return adv.MaxExtendedLength
}

// NewFormatter returns the formatter for c.Format writing to w.
func (c Config) NewFormatter(w io.Writer) (report.Formatter, error) {
	switch c.Format {
	case FormatText:
		t := report.NewText(w)
		t.TypeNames = c.TypeNames
		return t, nil
	case FormatJSON:
		return report.NewJSON(w), nil
	}
	return nil, errors.Errorf("invalid format %q", c.Format)
}

// Options returns the handler options for c, with output written to w.
func (c Config) Options(w io.Writer) ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	f, err := c.NewFormatter(w)
	if err != nil {
		return nil, err
	}

	return []Option{
		OptLogger(adscan.GetLogger()),
		OptFilter(c.Filter),
		OptFormatter(f),
		OptBackfill(c.Backfill),
		OptMaxLength(c.MaxLength()),
	}, nil
}
