// Package gitprovider implements vcsup.Provider for git working copies.
// This file contains the update operation: fast-forward pull per repository
// root and changed-file extraction from the before/after trees.
package gitprovider

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/fluviusStan/vcsup"
)

// Update implements vcsup.Provider. Each root is pulled fast-forward from
// the configured remote; roots fail independently and failures land in the
// session's error list. The continuation is ignored on input and always
// returned as no-more-work: git replays remote history in one pass.
func (p *Provider) Update(ctx context.Context, roots []string, cont vcsup.Continuation, progress vcsup.ProgressSink) vcsup.Session {
	session := vcsup.Session{
		Files:        vcsup.NewFileSet(),
		Continuation: vcsup.NoMoreWork(),
	}

	for _, root := range roots {
		if ctx.Err() != nil {
			session.Cancelled = true
			break
		}
		progress.SetText("updating " + root)

		if err := p.updateRoot(ctx, root, session.Files); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				p.log.Info().Str("root", root).Msg("pull cancelled")
				session.Cancelled = true
				break
			}
			p.log.Warn().Str("root", root).Err(err).Msg("pull failed")
			session.Errors = append(session.Errors, vcsup.WrapErrorf(err, "git root %q", root))
		}
	}
	return session
}

// updateRoot pulls one repository and records what changed between the old
// and new HEAD trees.
func (p *Provider) updateRoot(ctx context.Context, root string, files *vcsup.FileSet) error {
	repo, err := p.open(root)
	if err != nil {
		return err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return vcsup.WrapError(err, "failed to get worktree")
	}

	before, err := headCommit(repo)
	if err != nil {
		return err
	}

	auth, err := p.authMethod(repo)
	if err != nil {
		return err
	}

	err = worktree.PullContext(ctx, &git.PullOptions{
		RemoteName: p.remote,
		Depth:      p.depth,
		Auth:       auth,
	})
	switch {
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		p.log.Debug().Str("root", root).Msg("already up to date")
		return nil
	case errors.Is(err, git.ErrNonFastForwardUpdate):
		// Local history diverged; a manual merge is required before this
		// root can move forward.
		files.Add(vcsup.KindConflict, root)
		p.log.Warn().Str("root", root).Msg("non-fast-forward, manual merge required")
		return nil
	case err != nil:
		return vcsup.WrapError(err, "failed to pull from remote")
	}

	after, err := headCommit(repo)
	if err != nil {
		return err
	}
	return recordChanges(root, before, after, files)
}

// headCommit returns the commit HEAD points at, or nil for an unborn HEAD.
func headCommit(repo *git.Repository) (*object.Commit, error) {
	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, vcsup.WrapError(err, "failed to resolve HEAD")
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, vcsup.WrapError(err, "failed to load HEAD commit")
	}
	return commit, nil
}

// recordChanges diffs the before/after trees and files each change under
// the matching kind. With no before commit every file in the new tree is a
// creation.
func recordChanges(root string, before, after *object.Commit, files *vcsup.FileSet) error {
	if after == nil || (before != nil && before.Hash == after.Hash) {
		return nil
	}

	afterTree, err := after.Tree()
	if err != nil {
		return vcsup.WrapError(err, "failed to load tree")
	}

	if before == nil {
		err := afterTree.Files().ForEach(func(f *object.File) error {
			files.Add(vcsup.KindCreated, filepath.Join(root, f.Name))
			return nil
		})
		if err != nil {
			return vcsup.WrapError(err, "failed to walk tree")
		}
		return nil
	}

	beforeTree, err := before.Tree()
	if err != nil {
		return vcsup.WrapError(err, "failed to load tree")
	}

	changes, err := object.DiffTree(beforeTree, afterTree)
	if err != nil {
		return vcsup.WrapError(err, "failed to diff trees")
	}

	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			return vcsup.WrapError(err, "failed to classify change")
		}
		switch action {
		case merkletrie.Insert:
			files.Add(vcsup.KindCreated, filepath.Join(root, change.To.Name))
		case merkletrie.Delete:
			files.Add(vcsup.KindRemoved, filepath.Join(root, change.From.Name))
		case merkletrie.Modify:
			files.Add(vcsup.KindUpdated, filepath.Join(root, change.To.Name))
		}
	}
	return nil
}
