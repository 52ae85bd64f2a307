package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitFetcher clones git preludes into a local cache, one checkout per
// resolved version.
type GitFetcher struct {
	CacheDir string
}

// NewGitFetcher returns nil when cacheDir is empty.
func NewGitFetcher(cacheDir string) *GitFetcher {
	if cacheDir == "" {
		return nil
	}
	return &GitFetcher{CacheDir: cacheDir}
}

// Fetch resolves spec to a commit, checks it out into the cache, and returns
// the lock entry describing it.
func (g *GitFetcher) Fetch(spec *PreludeSpec) (*LockedPrelude, error) {
	if g == nil {
		return nil, errors.New("git fetcher unavailable")
	}
	if !spec.IsGit() {
		return nil, fmt.Errorf("prelude %q: git URL required", spec.Name)
	}
	url := strings.TrimSpace(spec.Git)
	pin, err := pinOf(spec)
	if err != nil {
		return nil, fmt.Errorf("prelude %q: %w", spec.Name, err)
	}

	version, commit, err := g.checkout(spec.Name, url, pin)
	if err != nil {
		return nil, fmt.Errorf("prelude %q: %w", spec.Name, err)
	}
	entry := &LockedPrelude{
		Name:    sanitizeSegment(spec.Name),
		Version: version,
		Source:  fmt.Sprintf("git+%s@%s", url, commit),
		Commit:  commit,
	}
	checksum, err := FileChecksum(g.FilePath(entry, spec.File))
	if err != nil {
		return nil, fmt.Errorf("prelude %q: %w", spec.Name, err)
	}
	entry.Checksum = checksum
	return entry, nil
}

// CheckoutDir is where the locked version of a prelude lives in the cache.
func (g *GitFetcher) CheckoutDir(entry *LockedPrelude) string {
	return filepath.Join(g.baseDir(entry.Name), cacheSegment(entry.Version))
}

// FilePath joins the prelude file onto its checkout directory.
func (g *GitFetcher) FilePath(entry *LockedPrelude, file string) string {
	return filepath.Join(g.CheckoutDir(entry), filepath.FromSlash(file))
}

func (g *GitFetcher) baseDir(name string) string {
	return filepath.Join(g.CacheDir, "preludes", cacheSegment(sanitizeSegment(name)))
}

// checkout clones url into a staging directory, resolves pin there, and moves
// the worktree to its version directory. A version that is already cached is
// reused and the fresh clone discarded.
func (g *GitFetcher) checkout(name, url string, pin preludePin) (string, string, error) {
	base := g.baseDir(name)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", "", err
	}
	staging, err := os.MkdirTemp(base, ".clone-*")
	if err != nil {
		return "", "", err
	}
	defer os.RemoveAll(staging)

	repo, err := git.PlainClone(staging, false, &git.CloneOptions{URL: url, Tags: git.AllTags})
	if err != nil {
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}
	hash, err := repo.ResolveRevision(pin.ref)
	if err != nil {
		return "", "", fmt.Errorf("resolve %s %s: %w", pin.kind, pin.label, err)
	}
	commit := hash.String()
	version := pin.version(commit)

	target := filepath.Join(base, cacheSegment(version))
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return version, commit, nil
	}
	tree, err := repo.Worktree()
	if err != nil {
		return "", "", err
	}
	if err := tree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return "", "", fmt.Errorf("git checkout %s: %w", commit, err)
	}
	if err := os.Rename(staging, target); err != nil {
		return "", "", err
	}
	return version, commit, nil
}

// preludePin is the one git selector a prelude declares.
type preludePin struct {
	kind  string // rev, tag or branch
	label string
	ref   plumbing.Revision
}

func pinOf(spec *PreludeSpec) (preludePin, error) {
	switch {
	case strings.TrimSpace(spec.Rev) != "":
		rev := strings.TrimSpace(spec.Rev)
		return preludePin{kind: "rev", label: rev, ref: plumbing.Revision(rev)}, nil
	case strings.TrimSpace(spec.Tag) != "":
		tag := strings.TrimSpace(spec.Tag)
		return preludePin{kind: "tag", label: tag, ref: plumbing.Revision(plumbing.NewTagReferenceName(tag))}, nil
	case strings.TrimSpace(spec.Branch) != "":
		branch := strings.TrimSpace(spec.Branch)
		return preludePin{kind: "branch", label: branch, ref: plumbing.Revision(plumbing.NewRemoteReferenceName("origin", branch))}, nil
	}
	return preludePin{}, errors.New("git preludes require rev, tag, or branch")
}

// version names a checkout: the commit alone when the pin is the full commit,
// otherwise "<label>@<commit>".
func (p preludePin) version(commit string) string {
	if p.label == commit {
		return commit
	}
	return p.label + "@" + commit
}

// cacheSegment maps s onto characters safe in a single path element.
func cacheSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "head"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		}
		return '_'
	}, s)
}
