package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestGitFetcherPinsRevision(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repo, "lib", "prelude.lox"), "var greeting = \"hi\";\n")
	rev := initGitRepo(t, repo)

	fetcher := NewGitFetcher(filepath.Join(root, "cache"))
	spec := &PreludeSpec{Name: "greet", Git: repo, Rev: rev, File: "lib/prelude.lox"}
	entry, err := fetcher.Fetch(spec)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if entry.Commit != rev || entry.Version != rev {
		t.Fatalf("unexpected pin %#v, want %s", entry, rev)
	}
	if want := fmt.Sprintf("git+%s@%s", repo, rev); entry.Source != want {
		t.Fatalf("Source = %q, want %q", entry.Source, want)
	}
	path := fetcher.FilePath(entry, spec.File)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected checked-out prelude at %s: %v", path, err)
	}
	sum, err := FileChecksum(path)
	if err != nil || sum != entry.Checksum {
		t.Fatalf("checksum mismatch: lock %s, file %s (%v)", entry.Checksum, sum, err)
	}

	again, err := fetcher.Fetch(spec)
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if *again != *entry {
		t.Fatalf("refetch changed the pin: %#v vs %#v", again, entry)
	}
}

func TestGitFetcherResolvesBranch(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repo, "prelude.lox"), "var x = 1;\n")
	rev := initGitRepo(t, repo)

	fetcher := NewGitFetcher(filepath.Join(root, "cache"))
	entry, err := fetcher.Fetch(&PreludeSpec{Name: "lib", Git: repo, Branch: "master", File: "prelude.lox"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if want := "master@" + rev; entry.Version != want {
		t.Fatalf("Version = %q, want %q", entry.Version, want)
	}
	if _, err := os.Stat(fetcher.CheckoutDir(entry)); err != nil {
		t.Fatalf("expected checkout dir: %v", err)
	}
}

func TestGitFetcherMissingFile(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repo, "other.lox"), "print 1;\n")
	rev := initGitRepo(t, repo)

	fetcher := NewGitFetcher(filepath.Join(root, "cache"))
	if _, err := fetcher.Fetch(&PreludeSpec{Name: "lib", Git: repo, Rev: rev, File: "missing.lox"}); err == nil {
		t.Fatalf("expected error for missing prelude file")
	}
}

func TestNilGitFetcher(t *testing.T) {
	if NewGitFetcher("") != nil {
		t.Fatalf("expected nil fetcher without cache dir")
	}
	var fetcher *GitFetcher
	if _, err := fetcher.Fetch(&PreludeSpec{Name: "x", Git: "y", Rev: "z", File: "f"}); err == nil {
		t.Fatalf("expected error from nil fetcher")
	}
}

func TestPinOfSelectsDeclaredRef(t *testing.T) {
	cases := []struct {
		spec  PreludeSpec
		kind  string
		ref   string
		label string
	}{
		{PreludeSpec{Rev: "abc123"}, "rev", "abc123", "abc123"},
		{PreludeSpec{Tag: " v1.2.0 "}, "tag", "refs/tags/v1.2.0", "v1.2.0"},
		{PreludeSpec{Branch: "main"}, "branch", "refs/remotes/origin/main", "main"},
	}
	for _, tc := range cases {
		pin, err := pinOf(&tc.spec)
		if err != nil {
			t.Fatalf("pinOf(%#v): %v", tc.spec, err)
		}
		if pin.kind != tc.kind || string(pin.ref) != tc.ref || pin.label != tc.label {
			t.Fatalf("got %+v, want kind %s ref %s label %s", pin, tc.kind, tc.ref, tc.label)
		}
	}
	if _, err := pinOf(&PreludeSpec{}); err == nil {
		t.Fatalf("expected error without a pin")
	}
}

func TestPinVersionNaming(t *testing.T) {
	commit := "0123456789abcdef0123456789abcdef01234567"
	if got := (preludePin{label: commit}).version(commit); got != commit {
		t.Fatalf("full-commit pin: got %q", got)
	}
	if got := (preludePin{label: "v1"}).version(commit); got != "v1@"+commit {
		t.Fatalf("tag pin: got %q", got)
	}
}

func TestGitFetcherLeavesNoStagingDirs(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repo, "prelude.lox"), "var x = 1;\n")
	rev := initGitRepo(t, repo)

	fetcher := NewGitFetcher(filepath.Join(root, "cache"))
	spec := &PreludeSpec{Name: "lib", Git: repo, Rev: rev, File: "prelude.lox"}
	for i := 0; i < 2; i++ {
		if _, err := fetcher.Fetch(spec); err != nil {
			t.Fatalf("Fetch #%d: %v", i+1, err)
		}
	}
	entries, err := os.ReadDir(fetcher.baseDir("lib"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != rev {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only the %s checkout, found %v", rev, names)
	}
}

func TestCacheSegment(t *testing.T) {
	if got := cacheSegment("feature/x@1"); got != "feature_x_1" {
		t.Fatalf("got %q", got)
	}
	if got := cacheSegment("  "); got != "head" {
		t.Fatalf("got %q", got)
	}
}
