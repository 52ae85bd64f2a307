package driver

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadManifestFull(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ManifestFileName)
	writeFile(t, path, `
name: demo-app
main: src/main.lox
preludes:
  - lib/util.lox
  - path: lib/extra.lox
  - name: stdlib
    git: https://example.com/lox-stdlib.git
    tag: v1.0.0
    file: prelude.lox
repl:
  prompt: "lox> "
diagnostics:
  color: Never
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.Name != "demo_app" {
		t.Fatalf("Name = %q, want demo_app", manifest.Name)
	}
	if manifest.Main != "src/main.lox" {
		t.Fatalf("Main = %q", manifest.Main)
	}
	if got := manifest.Resolve(manifest.Main); got != filepath.Join(root, "src", "main.lox") {
		t.Fatalf("Resolve(main) = %q", got)
	}
	if len(manifest.Preludes) != 3 {
		t.Fatalf("expected three preludes, got %#v", manifest.Preludes)
	}
	if p := manifest.Preludes[0]; p.Path != "lib/util.lox" || p.Name != "util" || p.IsGit() {
		t.Fatalf("unexpected shorthand prelude %#v", p)
	}
	if p := manifest.Preludes[2]; !p.IsGit() || p.Tag != "v1.0.0" || p.File != "prelude.lox" {
		t.Fatalf("unexpected git prelude %#v", p)
	}
	if git := manifest.GitPreludes(); len(git) != 1 || git[0].Name != "stdlib" {
		t.Fatalf("GitPreludes = %#v", git)
	}
	if manifest.REPL.Prompt != "lox> " {
		t.Fatalf("Prompt = %q", manifest.REPL.Prompt)
	}
	if manifest.Diagnostics.Color != ColorNever {
		t.Fatalf("Color = %q", manifest.Diagnostics.Color)
	}
	if manifest.LockfilePath() != filepath.Join(root, LockfileName) {
		t.Fatalf("LockfilePath = %q", manifest.LockfilePath())
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFileName)
	writeFile(t, path, "name: tiny\n")
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.REPL.Prompt != DefaultPrompt {
		t.Fatalf("expected default prompt, got %q", manifest.REPL.Prompt)
	}
	if manifest.Diagnostics.Color != "" || len(manifest.Preludes) != 0 {
		t.Fatalf("unexpected defaults %#v", manifest)
	}
}

func TestLoadManifestValidationIssues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFileName)
	writeFile(t, path, `
preludes:
  - path: a.lox
    git: https://example.com/x.git
  - git: https://example.com/y.git
  - name: pinned
    git: https://example.com/z.git
    rev: abc
    branch: main
    file: z.lox
  - path: b.lox
    tag: v1
diagnostics:
  color: sometimes
`)
	_, err := LoadManifest(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	joined := strings.Join(verr.Issues, "\n")
	for _, want := range []string{
		"name must be provided",
		`diagnostics.color has unsupported value "sometimes"`,
		"preludes[0]: path preludes cannot also specify git",
		"preludes[1]: git preludes require a name",
		"preludes[1]: git preludes require a file",
		"preludes[1]: git preludes require exactly one of rev, tag, or branch",
		"preludes[2]: git preludes require exactly one of rev, tag, or branch",
		"preludes[3]: rev, tag, branch, and file apply only to git preludes",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing issue %q in:\n%s", want, joined)
		}
	}
}

func TestLoadManifestDuplicateGitPreludeNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFileName)
	writeFile(t, path, `
name: app
preludes:
  - name: lib
    git: https://example.com/a.git
    rev: abc
    file: a.lox
  - name: lib
    git: https://example.com/b.git
    rev: def
    file: b.lox
`)
	_, err := LoadManifest(path)
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Issues) != 1 || !strings.Contains(verr.Issues[0], `share name "lib"`) {
		t.Fatalf("expected duplicate name issue, got %v", err)
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFileName)
	writeFile(t, path, "name: app\nversion: 1.0.0\n")
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "manifest: parse") {
		t.Fatalf("expected parse error for unknown field, got %v", err)
	}
}

func TestLoadManifestEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFileName)
	writeFile(t, path, "")
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty manifest error, got %v", err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestFileName), "name: app\n")
	nested := filepath.Join(root, "src", "deep")
	writeFile(t, filepath.Join(nested, "main.lox"), "print 1;\n")

	if got := FindManifest(nested); got != filepath.Join(root, ManifestFileName) {
		t.Fatalf("FindManifest = %q", got)
	}
}
