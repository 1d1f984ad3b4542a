package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStashStore(t *testing.T) {
	s := &HTMLStash{}

	first := s.Store("<b>one</b>")
	second := s.Store("<b>two</b>")

	require.Equal(t, 2, s.Len())
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "\x02"))
	assert.True(t, strings.HasSuffix(first, "\x03"))
}

func TestStashResolve(t *testing.T) {
	s := &HTMLStash{}
	token := s.Store("<b>bold</b>")

	out := s.Resolve("before " + token + " after")
	assert.Equal(t, "before <b>bold</b> after", out)
}

func TestStashResolveDropsParagraphWrapper(t *testing.T) {
	s := &HTMLStash{}
	token := s.Store(`<div class="block">x</div>`)

	out := s.Resolve("<p>" + token + "</p>")
	assert.Equal(t, `<div class="block">x</div>`, out)
}

func TestStashResolveMultiple(t *testing.T) {
	s := &HTMLStash{}
	a := s.Store("A")
	b := s.Store("B")

	out := s.Resolve("<p>" + a + "</p>\n" + b)
	assert.Equal(t, "A\nB", out)
}
