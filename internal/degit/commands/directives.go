package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gingerrexayers/degit-go/internal/degit/lib"
	"github.com/gingerrexayers/degit-go/internal/degit/types"
)

// ConfigFileName is the fixed name of the directive config file a fetched
// repository may leave at its root.
const ConfigFileName = "degit.json"

// runDirectives executes the directive pipeline after a successful
// retrieval. A destination without a config file is a no-op. Errors from
// nested clones propagate up the call stack; the top-level caller owns exit
// policy.
func (c *Cloner) runDirectives(ctx context.Context, dest string) error {
	configPath := filepath.Join(dest, ConfigFileName)
	content, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	directives, err := types.DecodeDirectives(content)
	if err != nil {
		return err
	}
	if err := os.Remove(configPath); err != nil {
		return err
	}

	// The stash lives next to the destination so moves stay on one
	// filesystem.
	stashDir, err := os.MkdirTemp(filepath.Dir(dest), ".degit-stash-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(stashDir)

	stashed := false
	for _, directive := range directives {
		switch d := directive.(type) {
		case types.CloneDirective:
			// The first clone directive relocates the freshly fetched
			// content out of the way; it is merged back on top of
			// whatever the directives produce.
			if !stashed {
				if err := lib.MoveChildren(dest, stashDir); err != nil {
					return err
				}
				stashed = true
			}
			if err := c.runCloneDirective(ctx, d, dest); err != nil {
				return err
			}
		case types.RemoveDirective:
			if err := c.runRemoveDirective(dest, d.Files); err != nil {
				return err
			}
		}
	}

	if stashed {
		if err := lib.MergeDirs(stashDir, dest); err != nil {
			return err
		}
	}
	return nil
}

// directiveOptions derives a nested clone's options from the parent's. A
// directive may opt out of caching for its own clone, but it can never
// re-enable a cache the parent run disabled.
func directiveOptions(parent Options, d types.CloneDirective) Options {
	opts := parent
	opts.Force = true
	opts.Subgroup = false
	opts.SubDirectory = ""
	if d.Cache != nil && !*d.Cache {
		opts.DisableCache = true
	}
	if d.Verbose != nil {
		opts.Verbose = *d.Verbose
	}
	return opts
}

// runCloneDirective performs a nested top-level clone into the same
// destination.
func (c *Cloner) runCloneDirective(ctx context.Context, d types.CloneDirective, dest string) error {
	nested, err := NewCloner(d.Src, directiveOptions(c.opts, d))
	if err != nil {
		return err
	}
	return nested.Clone(ctx, dest)
}

// runRemoveDirective deletes the named paths under dest. Missing targets
// are a warning, not an abort.
func (c *Cloner) runRemoveDirective(dest string, files []string) error {
	var removed []string
	for _, file := range files {
		target := filepath.Join(dest, filepath.FromSlash(file))
		if !lib.FileExists(target) {
			c.emitter.Warn(lib.Event{
				Code:    lib.EvFileNotExists,
				Message: fmt.Sprintf("%s does not exist, cannot be removed", file),
				Dest:    dest,
			})
			continue
		}
		if err := os.RemoveAll(target); err != nil {
			return err
		}
		removed = append(removed, file)
	}
	if len(removed) > 0 {
		c.emitter.Info(lib.Event{
			Code:    lib.EvRemovedFiles,
			Message: fmt.Sprintf("removed %s", strings.Join(removed, ", ")),
			Dest:    dest,
		})
	}
	return nil
}
