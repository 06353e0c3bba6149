package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgress(t *testing.T) {
	tests := []struct {
		line     string
		fraction float64
		message  string
	}{
		{"[ 42%] Building", 0.42, "Building"},
		{"[100%] Built target knob", 1, "Built target knob"},
		{"[  5%]", 0.05, ""},
		{"[250%] too much", -1, "[250%] too much"},
		{"-- Configuring done", -1, "-- Configuring done"},
		{"prefix [ 10%] not at start", -1, "prefix [ 10%] not at start"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			fraction, message := parseProgress(tt.line)
			assert.InDelta(t, tt.fraction, fraction, 1e-9)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestResolveEnvironment(t *testing.T) {
	sys := []string{"PATH=/usr/bin", "HOME=/home/me", "SECRET=x", "BROKEN"}
	env := resolveEnvironment(sys, map[string]string{"KNOB_CACHE": "/c", "HOME": "/override"})

	assert.Equal(t, []string{"HOME=/override", "KNOB_CACHE=/c", "PATH=/usr/bin"}, env)
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "cmake")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes"), []byte("x"), 0o644))

	got, err := lookPath("cmake", []string{"PATH=/nonexistent" + string(os.PathListSeparator) + dir})
	require.NoError(t, err)
	assert.Equal(t, exe, got)

	_, err = lookPath("notes", []string{"PATH=" + dir})
	require.Error(t, err)

	_, err = lookPath("cmake", nil)
	require.Error(t, err)
}

func TestLineWriter_FlushesTrailingLine(t *testing.T) {
	var got []string
	w := &lineWriter{progress: func(_ float64, m string) { got = append(got, m) }}

	_, _ = w.Write([]byte("first\r\nsec"))
	_, _ = w.Write([]byte("ond\n\nthird"))
	w.Close()

	assert.Equal(t, []string{"first", "second", "third"}, got)
}
