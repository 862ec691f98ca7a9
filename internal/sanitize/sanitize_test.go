package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text unchanged", in: "hello world", want: "hello world"},
		{name: "strips tags", in: "<b>bold</b> move", want: "bold move"},
		{name: "strips script", in: `before<script>alert("x")</script>after`, want: "beforeafter"},
		{name: "strips style body", in: `a<style>p { color: red }</style>b`, want: "ab"},
		{name: "trims whitespace", in: "  padded  ", want: "padded"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.com/a.jpg", URL("https://example.com/a.jpg"))
	assert.Equal(t, "http://example.com", URL(" http://example.com "))
	assert.Empty(t, URL("javascript:alert(1)"))
	assert.Empty(t, URL("ftp://example.com/file"))
	assert.Empty(t, URL("/relative/path"))
	assert.Empty(t, URL(""))
}

func TestURLs(t *testing.T) {
	t.Parallel()

	got := URLs([]string{"https://a.com/1.png", "javascript:x", "https://b.com/2.mp4"})
	assert.Equal(t, []string{"https://a.com/1.png", "https://b.com/2.mp4"}, got)
	assert.Nil(t, URLs(nil))
}
