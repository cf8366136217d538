package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

// isGitURL checks if the root argument looks like a Git repository URL rather than a path.
func isGitURL(input string) bool {
	if strings.HasPrefix(input, "git@") || strings.HasPrefix(input, "ssh://") {
		return true
	}
	isRemote := strings.HasPrefix(input, "https://") || strings.HasPrefix(input, "http://")
	return isRemote && strings.HasSuffix(input, ".git")
}

// cloneGitRepo shallow-clones url into a fresh temporary directory and returns its path.
// The caller owns the directory and must remove it.
func cloneGitRepo(url string, progress io.Writer, logger *zap.Logger) (string, error) {
	tempDir, err := os.MkdirTemp("", "collector-git-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}

	logger.Info("Cloning repository", zap.String("url", url), zap.String("dir", tempDir))
	_, err = git.PlainClone(tempDir, false, &git.CloneOptions{
		URL:           url,
		Progress:      progress,
		Depth:         1,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
	})
	if err != nil {
		_ = os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to clone repository '%s': %w", url, err)
	}
	return tempDir, nil
}
