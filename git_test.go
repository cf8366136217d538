package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGitURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"git@github.com:owner/repo.git", true},
		{"ssh://git@example.com/repo", true},
		{"https://github.com/owner/repo.git", true},
		{"https://github.com/owner/repo", false},
		{".", false},
		{"/srv/checkout.git", false},
		{"projects/app", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, isGitURL(tt.input))
		})
	}
}
