package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	SetColor(false)
	m.Run()
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(5, 10, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
	assert.Equal(t, "██████████ 100%", ProgressBar(10, 10, 10))
}

func TestOKAndFail(t *testing.T) {
	defer SetTheme("classic")

	var buf bytes.Buffer
	OK(&buf, "added")
	Fail(&buf, "nope")
	assert.Equal(t, "✔ added\n✖ nope\n", buf.String())

	SetTheme("mono")
	buf.Reset()
	Fail(&buf, "nope")
	assert.Equal(t, "error: nope\n", buf.String())
}

func TestSetThemeFallback(t *testing.T) {
	defer SetTheme("classic")
	SetTheme("NEON")
	assert.Equal(t, "neon", Current().Name)
	SetTheme("plaid")
	assert.Equal(t, "classic", Current().Name)
}

func TestPanel(t *testing.T) {
	out := Panel([]string{"Todos", "a"})
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "╭"))
	assert.Contains(t, lines[1], "Todos")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
}
