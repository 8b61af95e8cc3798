package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	restore := SetOutput(buf)
	defer restore()

	Silent, Verbose, Color = false, false, false
	defer func() { Silent, Verbose, Color = false, false, false }()

	Infof("created %d vpc(s)", 1)
	Debug("hidden unless verbose")
	Warn("careful")
	assert.Equal(t, "created 1 vpc(s)\nWARNING: careful\n", buf.String())

	buf.Reset()
	Verbose = true
	Debugf("now %s", "visible")
	assert.Equal(t, "now visible\n", buf.String())

	buf.Reset()
	Silent = true
	Info("muted")
	Dump("muted too", struct{}{})
	Errorf("errors are never muted")
	assert.Equal(t, "ERROR: errors are never muted\n", buf.String())
}

func TestDump(t *testing.T) {
	buf := &bytes.Buffer{}
	restore := SetOutput(buf)
	defer restore()

	Silent, Verbose = false, true
	defer func() { Silent, Verbose = false, false }()

	Dump("props", map[string]int{"maxAzs": 99})
	assert.Contains(t, buf.String(), "props:")
	assert.Contains(t, buf.String(), `"maxAzs": (int) 99`)
}

func TestColorizeMessage(t *testing.T) {
	assert.Equal(t, ColorRed+"boom"+ColorNC+"\n", colorizeMessage(ColorRed, "boom\n"))
}
