package lib

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// RunGit invokes the external git client with the given arguments and
// returns its standard output. When dir is non-empty the command runs with
// that working directory. Failures carry the command line and whatever git
// printed on stderr.
func RunGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
		}
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, msg)
	}
	return stdout.String(), nil
}

// GitAvailable probes for a runnable git executable.
func GitAvailable(ctx context.Context) error {
	_, err := RunGit(ctx, "", "--version")
	return err
}

// LsRemote lists the refs advertised by a remote repository, in git's
// "<hash>\t<refname>" line format.
func LsRemote(ctx context.Context, url string) (string, error) {
	return RunGit(ctx, "", "ls-remote", url)
}
