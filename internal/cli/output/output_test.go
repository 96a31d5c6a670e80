package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.Table([]string{"NAME", "PCT"}, [][]string{
		{"X-Men", "100.0%"},
		{"Über Series", "5.0%"},
		{"Short"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME         PCT", lines[0])
	assert.Equal(t, "X-Men        100.0%", lines[1])
	assert.Equal(t, "Über Series  5.0%", lines[2])
	assert.Equal(t, "Short", lines[3])
}

func TestMessagesWithoutColorOnBuffers(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.Success("added %d", 2)
	p.Error("failed: %s", "nope")
	p.Plain("fc_token")

	assert.Equal(t, "✓ added 2\n✗ failed: nope\nfc_token\n", buf.String())
}

func TestBar(t *testing.T) {
	p := New(&bytes.Buffer{})
	assert.Equal(t, "█████░░░░░", p.Bar(50, 10))
	assert.Equal(t, "░░░░", p.Bar(-5, 4))
	assert.Equal(t, "████", p.Bar(250, 4))
	assert.Equal(t, "", p.Bar(10, 0))
}
