package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(strings.NewReader(stdin), &out).Run(append([]string{"adscan"}, args...))
	return out.String(), err
}

func TestDecodeArgs(t *testing.T) {
	out, err := run(t, "", "decode", "020106", "nothex", "05 16 1a 18 01 02")
	require.NoError(t, err)
	assert.Equal(t, "[?] \n    2 0x01 06\n[?] \n    5 0x16 181a 0102\n  ServiceData(1):\n    181a   2 0102\n", out)
}

func TestDecodeStdinJSON(t *testing.T) {
	in := `{"addr":"a4:c1:38:e1:ea:50","payload":"0303aafe"}` + "\n" + `{"addr":"11:22:33:44:55:66","payload":"020106"}` + "\n"
	out, err := run(t, in, "--format", "json", "--filter", "a4:*", "decode")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"services":["feaa"]`)
}

func TestDecodeJSONMalformed(t *testing.T) {
	out, err := run(t, "", "--format", "json", "decode", "0216aa090978")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 1)
	assert.JSONEq(t, `{
		"payload": "0216aa090978",
		"elements": [
			{"length": 2, "type": "0x16", "name": "Service Data - 16-bit UUID", "data": "aa",
			 "malformedService": {"length": 1, "want": 2}}
		],
		"malformed": {"length": 9, "remaining": 3, "offset": 3}
	}`, lines[0])
}

func TestDecodeFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "events.txt")
	require.NoError(t, os.WriteFile(p, []byte("# bench\n0216aa\n"), 0o644))

	out, err := run(t, "", "--names", "decode", "--file", p)
	require.NoError(t, err)
	assert.Contains(t, out, "MalFormed Service length=1: aa (Service Data - 16-bit UUID)")

	_, err = run(t, "", "decode", "--file", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestDecodeConfig(t *testing.T) {
	p := filepath.Join(t.TempDir(), "adscan.yaml")
	require.NoError(t, os.WriteFile(p, []byte("format: json\nlegacy: true\n"), 0o644))

	out, err := run(t, "", "--config", p, "decode", "020106", strings.Repeat("00", 32))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, `"payload":"020106"`)

	_, err = run(t, "", "--format", "xml", "decode", "020106")
	assert.Error(t, err)
}

func TestListenNoPort(t *testing.T) {
	_, err := run(t, "", "listen")
	assert.Error(t, err)
}
