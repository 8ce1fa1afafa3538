package lib

import (
	"fmt"
	"strings"

	"github.com/gingerrexayers/degit-go/internal/degit/types"
)

// Host describes one supported hosting service.
type Host struct {
	// Name is the canonical short identifier, e.g. "github".
	Name string
	// Domain is the full domain used to build URLs, e.g. "github.com".
	Domain string
	// GitOnly marks hosts that do not serve tarballs; clones from them
	// always use git mode regardless of the requested mode.
	GitOnly bool
}

// supportedHosts is the fixed table of hosting services degit knows how to
// talk to, keyed by short name.
var supportedHosts = map[string]Host{
	"github":      {Name: "github", Domain: "github.com"},
	"gitlab":      {Name: "gitlab", Domain: "gitlab.com"},
	"bitbucket":   {Name: "bitbucket", Domain: "bitbucket.org"},
	"sourcehut":   {Name: "sourcehut", Domain: "git.sr.ht"},
	"huggingface": {Name: "huggingface", Domain: "huggingface.co", GitOnly: true},
	"codeberg":    {Name: "codeberg", Domain: "codeberg.org"},
}

// LookupHost resolves a host token from a descriptor string to a supported
// host. The token may be a short name ("gitlab"), a full domain
// ("gitlab.com") or empty, which defaults to GitHub.
func LookupHost(token string) (Host, bool) {
	if token == "" {
		return supportedHosts["github"], true
	}
	if h, ok := supportedHosts[token]; ok {
		return h, true
	}
	for _, h := range supportedHosts {
		if h.Domain == token {
			return h, true
		}
	}
	// A dotted TLD suffix is stripped to recover the short name, so
	// "github.com" and "bitbucket.org" both resolve.
	if i := strings.LastIndex(token, "."); i > 0 {
		if h, ok := supportedHosts[token[:i]]; ok {
			return h, true
		}
	}
	return Host{}, false
}

// HostFor returns the host table entry for a parsed repository.
func HostFor(repo *types.Repo) Host {
	h, _ := LookupHost(repo.Site)
	return h
}

// ArchiveURL computes the host-specific tarball URL for a resolved commit
// hash.
func ArchiveURL(repo *types.Repo, hash string) string {
	base := strings.TrimSuffix(repo.URL, ".git")
	switch repo.Site {
	case "gitlab":
		return fmt.Sprintf("%s/-/archive/%s/%s-%s.tar.gz", base, hash, repo.Name, hash)
	case "bitbucket":
		return fmt.Sprintf("%s/get/%s.tar.gz", base, hash)
	default:
		return fmt.Sprintf("%s/archive/%s.tar.gz", base, hash)
	}
}
