package scanner

import (
	"io"

	"github.com/jacobsa/go-serial/serial"
	"github.com/pkg/errors"
)

// SerialConfig selects the serial port of a scanner dongle that prints one
// event per line.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud uint   `yaml:"baud"`
}

// DefaultBaud is used when SerialConfig.Baud is zero.
const DefaultBaud = 115200

func (c SerialConfig) options() serial.OpenOptions {
	baud := c.Baud
	if baud == 0 {
		baud = DefaultBaud
	}

	return serial.OpenOptions{
		PortName:   c.Port,
		BaudRate:   baud,
		DataBits:   8,
		StopBits:   1,
		ParityMode: serial.PARITY_NONE,
		// block until at least one byte arrives, a zero-length read would
		// stall the line scanner
		MinimumReadSize: 1,
	}
}

// OpenSerial opens the port and returns a LineSource reading from it.
// Closing the source closes the port.
func OpenSerial(c SerialConfig) (*LineSource, error) {
	if c.Port == "" {
		return nil, errors.New("no serial port")
	}

	sp, err := openPort(c.options())
	if err != nil {
		return nil, errors.Wrapf(err, "open %v", c.Port)
	}

	return NewLineSource(sp), nil
}

var openPort = func(o serial.OpenOptions) (io.ReadWriteCloser, error) {
	return serial.Open(o)
}
