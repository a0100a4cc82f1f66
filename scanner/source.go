package scanner

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/rigado/adscan"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Source delivers advertising events one at a time. Next returns io.EOF once
// the source is exhausted.
type Source interface {
	Next() (*adscan.Advertisement, error)
}

// LineError reports a source line that could not be parsed. The source can
// still be read after it.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %v: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// MaxLineLength is the longest line a LineSource accepts. Longer lines are
// skipped and reported as a *LineError wrapping ErrLineTooLong.
const MaxLineLength = 64 * 1024

// ErrLineTooLong is wrapped by the *LineError of a line over MaxLineLength.
var ErrLineTooLong = errors.New("line too long")

// LineSource reads one event per line: a JSON object with the keys of
// adscan.AdvertisementMapKeys, or a bare hex payload. Blank lines and lines
// starting with '#' are skipped.
type LineSource struct {
	r    io.Reader
	br   *bufio.Reader
	line int
}

// NewLineSource returns a LineSource reading from r.
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{r: r, br: bufio.NewReaderSize(r, MaxLineLength)}
}

// Next returns the next event.
func (s *LineSource) Next() (*adscan.Advertisement, error) {
	for {
		b, err := s.readLine()
		if errors.Is(err, ErrLineTooLong) {
			s.line++
			return nil, &LineError{Line: s.line, Err: err}
		}
		if len(b) == 0 && err != nil {
			return nil, err
		}

		// a last line without newline arrives together with io.EOF
		s.line++
		txt := strings.TrimSpace(string(b))
		if txt == "" || strings.HasPrefix(txt, "#") {
			continue
		}

		a, err := parseLine(txt)
		if err != nil {
			return nil, &LineError{Line: s.line, Err: err}
		}
		return a, nil
	}
}

// readLine returns the next line. The slice is only valid until the next
// read. A line that does not fit the buffer is consumed up to its newline
// and ErrLineTooLong is returned.
func (s *LineSource) readLine() ([]byte, error) {
	b, err := s.br.ReadSlice('\n')
	if !errors.Is(err, bufio.ErrBufferFull) {
		return b, err
	}

	for errors.Is(err, bufio.ErrBufferFull) {
		_, err = s.br.ReadSlice('\n')
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return nil, ErrLineTooLong
}

// Close closes the underlying reader if it is an io.Closer.
func (s *LineSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func parseLine(txt string) (*adscan.Advertisement, error) {
	if strings.HasPrefix(txt, "{") {
		var a adscan.Advertisement
		if err := json.UnmarshalFromString(txt, &a); err != nil {
			return nil, err
		}
		return &a, nil
	}

	b, err := adscan.ParseHex(txt)
	if err != nil {
		return nil, err
	}
	return &adscan.Advertisement{Payload: b}, nil
}
