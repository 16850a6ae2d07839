package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstHeading(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"atx", "# Go 笔记\n\ntext\n", "Go 笔记"},
		{"setext", "Garbage Collection\n==================\n", "Garbage Collection"},
		{"inline markup", "# The `sync` **package**\n", "The sync package"},
		{"link", "# [Home](/)\n", "Home"},
		{"skips lower levels", "## Intro\n\n# Real Title\n", "Real Title"},
		{"first wins", "# One\n# Two\n", "One"},
		{"none", "Just a paragraph.\n\n## Sub\n", ""},
		{"heading in code block", "```\n# not a heading\n```\n", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstHeading([]byte(tt.body)))
		})
	}
}
