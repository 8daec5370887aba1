package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":          "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?list=PL1&v=dQw4w9WgXcQ": "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                         "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?t=42":                    "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ":           "dQw4w9WgXcQ",
		"dQw4w9WgXcQ":                                          "dQw4w9WgXcQ",
		"https://example.com/watch?v=dQw4w9WgXcQ":              "",
		"not-an-id":                                            "",
		"":                                                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ExtractVideoID(in), "input %q", in)
	}
}
