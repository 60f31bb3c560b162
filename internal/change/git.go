package change

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// StagedDiff returns the staged changes for the repository at dir, filtered
// to added/copied/modified/renamed files. An empty string means there is
// nothing to review.
func StagedDiff(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--cached", "--diff-filter=ACMR")
	cmd.Dir = dir

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("getting staged diff: %w", err)
	}
	return string(output), nil
}

// HeadCommit returns the current HEAD hash, or empty when the repository has
// no commits or git is unavailable.
func HeadCommit(ctx context.Context, dir string) string {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = dir

	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}
