package gitsync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	log "github.com/sirupsen/logrus"
)

// Syncer implements ports.AssetSyncService by mirroring a git repository
// into the games directory.
type Syncer struct {
	mu     sync.Mutex
	dir    string
	url    string
	branch string
}

// NewSyncer returns a syncer for dir. An empty url disables syncing.
func NewSyncer(dir, url, branch string) *Syncer {
	return &Syncer{dir: dir, url: url, branch: branch}
}

func (s *Syncer) Enabled() bool {
	return s.url != ""
}

// Sync clones the repository on first use and fast-forwards it afterwards.
// Concurrent calls run one after the other on the same worktree.
func (s *Syncer) Sync(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := git.PlainOpen(s.dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return s.clone(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to open games repo: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open games worktree: %w", err)
	}

	opts := &git.PullOptions{RemoteName: git.DefaultRemoteName}
	if s.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(s.branch)
		opts.SingleBranch = true
	}
	err = wt.PullContext(ctx, opts)
	switch {
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		log.Debugf("games repo %s already up to date", s.url)
		return nil
	case err != nil:
		return fmt.Errorf("failed to pull games repo: %w", err)
	}

	head, err := repo.Head()
	if err == nil {
		log.Infof("games repo updated to %s", head.Hash().String()[:7])
	}
	return nil
}

func (s *Syncer) clone(ctx context.Context) error {
	log.Infof("Cloning %s into %s...", s.url, s.dir)
	opts := &git.CloneOptions{URL: s.url}
	if s.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(s.branch)
		opts.SingleBranch = true
	}
	if _, err := git.PlainCloneContext(ctx, s.dir, false, opts); err != nil {
		return fmt.Errorf("failed to clone games repo: %w", err)
	}
	return nil
}
