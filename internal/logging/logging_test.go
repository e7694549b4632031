package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"error", false, false},
		{"bogus", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, Options{Level: tt.level, Prefix: "todo"})

			l.Debug("dbg line")
			l.Info("info line", "op", "list todos")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("dbg line")), out)
			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info line")), out)
			if tt.wantInfo {
				assert.Contains(t, out, "op=")
				assert.Contains(t, out, "todo")
			}
		})
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todo.log")
	f, err := OpenFile(path)
	require.NoError(t, err)

	l := New(f, DefaultOptions())
	l.Error("request failed", "status", 500)
	require.NoError(t, f.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "request failed")
	assert.Contains(t, string(b), "status=500")
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel("warn"))
	assert.True(t, ValidLevel("DEBUG"))
	assert.False(t, ValidLevel("loud"))
}
