// Package commands implements the degit clone operation and its directive
// pipeline on top of the core services in lib.
package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gingerrexayers/degit-go/internal/degit/lib"
	"github.com/gingerrexayers/degit-go/internal/degit/types"
)

// Mode selects the retrieval backend.
const (
	ModeTar = "tar"
	ModeGit = "git"
)

// Options is the per-operation configuration, built once before a clone
// starts and never mutated afterwards.
type Options struct {
	// Force allows cloning into a non-empty destination by clearing it.
	Force bool
	// Mode is "tar" (default) or "git". Git-only hosts override it.
	Mode string
	// Verbose is carried for subscribers; the core emits the same events
	// either way.
	Verbose bool
	// DisableCache always resolves and downloads fresh.
	DisableCache bool
	// OfflineMode forbids network access; only cached blobs are usable.
	OfflineMode bool
	// Subgroup enables GitLab nested-namespace addressing.
	Subgroup bool
	// SubDirectory is the sub-directory to extract when Subgroup is set.
	SubDirectory string
	// Proxy routes tarball downloads through the given URL.
	Proxy string
	// CacheRoot is the tarball cache location. Empty means the default.
	CacheRoot string
	// CloneURL overrides the remote URL git mode retrieves from. Empty
	// means the repository's canonical https URL.
	CloneURL string
	// Resolver overrides the ref resolution collaborators. Nil means the
	// default, wired to the external git client and the shallow-fetch
	// probe.
	Resolver *lib.Resolver
	// OnInfo and OnWarn receive progress events. Either may be nil.
	OnInfo func(lib.Event)
	OnWarn func(lib.Event)
}

// Cloner performs one top-level clone of a parsed repository reference.
type Cloner struct {
	repo     *types.Repo
	opts     Options
	emitter  *lib.Emitter
	resolver *lib.Resolver
}

// NewCloner parses src and builds a Cloner for it.
func NewCloner(src string, opts Options) (*Cloner, error) {
	repo, err := lib.ParseRepo(src, opts.Subgroup, opts.SubDirectory)
	if err != nil {
		return nil, err
	}
	if opts.Mode == "" {
		opts.Mode = ModeTar
	}
	if opts.CacheRoot == "" {
		opts.CacheRoot = lib.DefaultCacheRoot()
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = lib.NewResolver()
	}
	return &Cloner{
		repo:     repo,
		opts:     opts,
		emitter:  &lib.Emitter{OnInfo: opts.OnInfo, OnWarn: opts.OnWarn},
		resolver: resolver,
	}, nil
}

// Repo exposes the parsed repository reference.
func (c *Cloner) Repo() *types.Repo {
	return c.repo
}

// Clone fetches the repository into dest and then runs any directives found
// in the fetched content.
func (c *Cloner) Clone(ctx context.Context, dest string) error {
	dest, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("could not resolve destination path: %w", err)
	}

	mode := c.opts.Mode
	if mode != ModeTar && mode != ModeGit {
		return fmt.Errorf("unknown mode %q: valid modes are tar and git", mode)
	}
	if c.opts.OfflineMode && c.opts.DisableCache {
		return fmt.Errorf("offline mode requires the cache; it cannot be combined with cache disabling")
	}
	if host := lib.HostFor(c.repo); host.GitOnly && mode == ModeTar {
		c.emitter.Info(lib.Event{
			Code:    lib.EvGitOnlyHost,
			Message: fmt.Sprintf("%s does not serve tarballs, falling back to git mode", host.Domain),
			Repo:    c.repo.User + "/" + c.repo.Name,
		})
		mode = ModeGit
	}

	if err := c.checkDestination(dest); err != nil {
		return err
	}

	if mode == ModeTar {
		err = c.cloneWithTar(ctx, dest)
	} else {
		err = c.cloneWithGit(ctx, dest)
	}
	if err != nil {
		return err
	}

	c.emitter.Info(lib.Event{
		Code:    lib.EvSuccess,
		Message: fmt.Sprintf("cloned %s/%s#%s to %s", c.repo.User, c.repo.Name, c.repo.Ref, dest),
		Repo:    c.repo.User + "/" + c.repo.Name,
		Dest:    dest,
	})

	return c.runDirectives(ctx, dest)
}

// checkDestination enforces the pre-flight empty-directory rule: a
// populated destination fails unless force is set, in which case it is
// cleared first.
func (c *Cloner) checkDestination(dest string) error {
	empty, err := lib.DirIsEmpty(dest)
	if err != nil {
		return err
	}
	if empty {
		c.emitter.Info(lib.Event{Code: lib.EvDestIsEmpty, Message: fmt.Sprintf("destination %s is empty", dest), Dest: dest})
		return nil
	}
	if !c.opts.Force {
		return lib.NewError(lib.CodeDestNotEmpty,
			fmt.Sprintf("destination %s is not empty, aborting. Use force to override", dest))
	}
	c.emitter.Info(lib.Event{Code: lib.EvDestNotEmpty, Message: fmt.Sprintf("destination %s is not empty, clearing", dest), Dest: dest})
	return lib.ClearDir(dest)
}
