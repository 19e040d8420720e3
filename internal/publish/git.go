package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

const (
	DEFAULT_REMOTE       = "origin"
	DEFAULT_AUTHOR_NAME  = "Reddit Digest Bot"
	DEFAULT_AUTHOR_EMAIL = "reddit-digest@users.noreply.github.com"
	commitTimeLayout     = "2006-01-02 15:04:05"
)

// GitPublisher commits the generated page into a local clone and pushes it.
type GitPublisher struct {
	RepoPath    string
	RemoteName  string
	Token       string
	AuthorName  string
	AuthorEmail string
	Now         func() time.Time
}

func NewGitPublisher(repoPath, token string) *GitPublisher {
	return &GitPublisher{
		RepoPath:    repoPath,
		RemoteName:  DEFAULT_REMOTE,
		Token:       token,
		AuthorName:  DEFAULT_AUTHOR_NAME,
		AuthorEmail: DEFAULT_AUTHOR_EMAIL,
		Now:         time.Now,
	}
}

// Publish copies htmlPath into the repository root when it lives elsewhere,
// stages it and, if anything is staged, commits and pushes. It returns
// whether a commit was made.
func (gp *GitPublisher) Publish(ctx context.Context, htmlPath string) (bool, error) {
	repo, err := git.PlainOpen(gp.RepoPath)
	if err != nil {
		return false, fmt.Errorf("[GitPublisher] open repository %s: %w", gp.RepoPath, err)
	}

	name := filepath.Base(htmlPath)
	if err := syncFile(htmlPath, filepath.Join(gp.RepoPath, name)); err != nil {
		return false, fmt.Errorf("[GitPublisher] copy page into repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("[GitPublisher] open worktree: %w", err)
	}
	if _, err := wt.Add(name); err != nil {
		return false, fmt.Errorf("[GitPublisher] stage %s: %w", name, err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("[GitPublisher] worktree status: %w", err)
	}
	if !hasStagedChanges(status) {
		slog.Info("[GitPublisher] No changes to commit", slog.String("file", name))
		return false, nil
	}

	now := gp.Now()
	hash, err := wt.Commit(fmt.Sprintf("Update Reddit digest - %s", now.Format(commitTimeLayout)), &git.CommitOptions{
		Author: &object.Signature{Name: gp.AuthorName, Email: gp.AuthorEmail, When: now},
	})
	if err != nil {
		return false, fmt.Errorf("[GitPublisher] commit: %w", err)
	}
	slog.Info("[GitPublisher] Committed digest page",
		slog.String("commit", hash.String()[:8]),
		slog.String("file", name))

	err = repo.PushContext(ctx, &git.PushOptions{RemoteName: gp.remote(), Auth: gp.auth()})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return true, fmt.Errorf("[GitPublisher] push to %s: %w", gp.remote(), err)
	}

	slog.Info("[GitPublisher] Pushed digest page", slog.String("remote", gp.remote()))
	return true, nil
}

func (gp *GitPublisher) remote() string {
	if gp.RemoteName == "" {
		return DEFAULT_REMOTE
	}
	return gp.RemoteName
}

// Most Git hosting services accept a token as the password of any user.
func (gp *GitPublisher) auth() transport.AuthMethod {
	if gp.Token == "" {
		return nil
	}
	return &http.BasicAuth{Username: "token", Password: gp.Token}
}

func hasStagedChanges(status git.Status) bool {
	for _, fs := range status {
		if fs.Staging != git.Unmodified && fs.Staging != git.Untracked {
			return true
		}
	}
	return false
}

func syncFile(src, dst string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if absSrc == absDst {
		return nil
	}

	in, err := os.Open(absSrc)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(absDst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
