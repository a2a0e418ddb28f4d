package leafy

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogger_Levels(t *testing.T) {
	var out, errs bytes.Buffer
	l := newLogger("leafy", false, &out, &errs)

	l.Debugf("hidden %d", 1)
	l.Infof("hello %s", "world")
	l.Warnf("careful")
	l.Errorf("broken: %v", "pipe")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[leafy] INFO: hello world")
	assert.Contains(t, errs.String(), "[leafy] WARN: careful")
	assert.Contains(t, errs.String(), "[leafy] ERROR: broken: pipe")
}

func TestDefaultLogger_SetDebug(t *testing.T) {
	var out bytes.Buffer
	l := newLogger("", false, &out, &out)
	assert.False(t, l.DebugEnabled())

	l.SetDebug(true)
	require.True(t, l.DebugEnabled())
	l.Debugf("frame %d", 7)
	assert.Contains(t, out.String(), "DEBUG: frame 7")
	assert.NotContains(t, out.String(), "[")
}

func TestApp_Logger(t *testing.T) {
	var nilApp *App
	assert.NotNil(t, nilApp.Logger())

	bare := NewAppBuilder().Build()
	assert.Equal(t, NewNopLogger(), bare.Logger())

	app := NewAppBuilder().UseModule(LoggingModule{Debug: true}).Build()
	l, ok := app.Logger().(*DefaultLogger)
	require.True(t, ok)
	assert.Equal(t, "leafy", l.prefix)
	assert.True(t, l.DebugEnabled())
}
