package lib

import (
	"context"
	"fmt"
	"strings"

	"github.com/gingerrexayers/degit-go/internal/degit/types"
)

// RemoteRef is one entry of a remote ref listing. Listings are produced
// fresh on every resolution; only the selected hash is ever persisted.
type RemoteRef struct {
	// Type is "HEAD", "branch", "tag", "ref", or the raw refs/ namespace
	// segment for anything else.
	Type string
	// Name is the short ref name. It is empty for the synthetic HEAD entry.
	Name string
	// Hash is the 40-hex-char commit id.
	Hash string
}

// Resolver turns a requested ref into a concrete commit hash using a remote
// ref listing, with a shallow-fetch probe as the fallback for refs the
// listing does not advertise. Both collaborators are injectable so tests
// run without a network.
type Resolver struct {
	// ListRemote returns the raw ls-remote output for a repository URL.
	ListRemote func(ctx context.Context, url string) (string, error)
	// Probe resolves a ref the listing omitted by fetching it at depth 1.
	// A nil Probe disables the fallback.
	Probe func(ctx context.Context, url, ref string) (string, error)
}

// NewResolver returns a Resolver wired to the external git client and the
// in-memory shallow-fetch probe.
func NewResolver() *Resolver {
	return &Resolver{
		ListRemote: LsRemote,
		Probe:      ProbeRef,
	}
}

// ResolveHash resolves repo.Ref to a 40-character commit hash.
//
// For "HEAD" it returns the hash of the remote's synthetic HEAD entry, or
// the empty string when the listing has none (a known soft failure, not an
// error). For everything else it tries, in order: an exact short-name
// match, a hash prefix match for selectors of at least 8 characters, the
// ref itself when it is a full 40-hex-char hash, and finally the shallow
// probe.
func (r *Resolver) ResolveHash(ctx context.Context, repo *types.Repo) (string, error) {
	out, err := r.ListRemote(ctx, repo.URL)
	if err != nil {
		return "", &Error{
			Code:    CodeCouldNotFetch,
			Message: fmt.Sprintf("could not fetch remote %s", repo.URL),
			URL:     repo.URL,
			Err:     err,
		}
	}

	refs, err := ParseRemoteRefs(out)
	if err != nil {
		return "", err
	}

	if repo.Ref == "HEAD" {
		for _, ref := range refs {
			if ref.Type == "HEAD" {
				return ref.Hash, nil
			}
		}
		return "", nil
	}

	if hash := SelectRef(refs, repo.Ref); hash != "" {
		return hash, nil
	}
	if IsCommitHash(repo.Ref) {
		return strings.ToLower(repo.Ref), nil
	}

	if r.Probe != nil {
		hash, probeErr := r.Probe(ctx, repo.URL, repo.Ref)
		if probeErr == nil && hash != "" {
			return hash, nil
		}
		return "", &Error{
			Code:    CodeMissingRef,
			Message: fmt.Sprintf("could not find ref %q in %s", repo.Ref, repo.URL),
			Ref:     repo.Ref,
			URL:     repo.URL,
			Err:     probeErr,
		}
	}

	return "", &Error{
		Code:    CodeMissingRef,
		Message: fmt.Sprintf("could not find ref %q in %s", repo.Ref, repo.URL),
		Ref:     repo.Ref,
		URL:     repo.URL,
	}
}

// ParseRemoteRefs parses ls-remote output lines of the form
// "<hash>\t<refname>". The refs/heads namespace maps to type "branch" and
// refs/refs to "ref"; any other namespace is kept verbatim.
func ParseRemoteRefs(out string) ([]RemoteRef, error) {
	var refs []RemoteRef
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		hash, refname, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, NewError(CodeBadRef, fmt.Sprintf("could not parse ref line %q", line))
		}

		if refname == "HEAD" {
			refs = append(refs, RemoteRef{Type: "HEAD", Hash: hash})
			continue
		}

		rest, found := strings.CutPrefix(refname, "refs/")
		if !found {
			return nil, NewError(CodeBadRef, fmt.Sprintf("could not parse ref %q", refname))
		}
		namespace, name, found := strings.Cut(rest, "/")
		if !found {
			return nil, NewError(CodeBadRef, fmt.Sprintf("could not parse ref %q", refname))
		}

		refType := namespace
		switch namespace {
		case "heads":
			refType = "branch"
		case "refs":
			refType = "ref"
		}
		refs = append(refs, RemoteRef{Type: refType, Name: name, Hash: hash})
	}
	return refs, nil
}

// SelectRef picks the hash for a ref selector from a remote listing: first
// an exact short-name match, then, for selectors of at least 8 characters,
// a hash prefix match. Remote order is authoritative; the first match wins.
// Returns "" when nothing matches.
func SelectRef(refs []RemoteRef, selector string) string {
	for _, ref := range refs {
		if ref.Name == selector {
			return ref.Hash
		}
	}
	if len(selector) >= 8 {
		for _, ref := range refs {
			if strings.HasPrefix(ref.Hash, selector) {
				return ref.Hash
			}
		}
	}
	return ""
}

// IsCommitHash reports whether s is a full 40-hex-char commit id.
func IsCommitHash(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// FetchRefArgs returns the arguments passed to a fetch of ref. The two-part
// "HEAD#<hash>" form is split and reversed so the literal hash is what
// actually gets fetched.
func FetchRefArgs(ref string) []string {
	if i := strings.Index(ref, "#"); i >= 0 {
		return []string{ref[i+1:], ref[:i]}
	}
	return []string{ref}
}
