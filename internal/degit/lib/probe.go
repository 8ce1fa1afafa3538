package lib

import (
	"context"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// probeRefName is where a probed ref lands inside the throwaway repository.
var probeRefName = plumbing.ReferenceName("refs/degit/probe")

// ProbeRef resolves a ref that the remote listing did not advertise by
// fetching it at depth 1 into a throwaway in-memory repository and reading
// the resulting commit id. This is the expensive last-resort path for old
// or unadvertised refs.
func ProbeRef(ctx context.Context, url, ref string) (string, error) {
	repo, err := gogit.Init(memory.NewStorage(), nil)
	if err != nil {
		return "", fmt.Errorf("could not initialize probe repository: %w", err)
	}
	remote, err := repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	})
	if err != nil {
		return "", fmt.Errorf("could not add probe remote: %w", err)
	}

	var lastErr error
	for _, src := range probeRefSpecs(ref) {
		spec := config.RefSpec(src + ":" + probeRefName.String())
		err := remote.FetchContext(ctx, &gogit.FetchOptions{
			RefSpecs: []config.RefSpec{spec},
			Depth:    1,
			Tags:     gogit.NoTags,
		})
		if err != nil {
			lastErr = err
			continue
		}
		got, err := repo.Reference(probeRefName, true)
		if err != nil {
			lastErr = err
			continue
		}
		return got.Hash().String(), nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no fetchable ref found for %q", ref)
	}
	return "", lastErr
}

// probeRefSpecs lists the fetch sources tried for a ref, most likely first.
// The two-part "HEAD#<hash>" form reduces to its hash part.
func probeRefSpecs(ref string) []string {
	if i := strings.Index(ref, "#"); i >= 0 {
		ref = ref[i+1:]
	}
	if IsCommitHash(ref) {
		return []string{strings.ToLower(ref)}
	}
	return []string{
		"refs/heads/" + ref,
		"refs/tags/" + ref,
		ref,
	}
}
