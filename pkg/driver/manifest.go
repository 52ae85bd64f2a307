package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project manifest looked up by the CLI.
const ManifestFileName = "lox.yml"

// Manifest represents the parsed contents of lox.yml.
type Manifest struct {
	Path        string
	Name        string
	Main        string
	Preludes    []*PreludeSpec
	REPL        REPLConfig
	Diagnostics DiagnosticsConfig
}

// PreludeSpec describes a script executed in the global scope before main.
// Exactly one of Path or Git is set; git preludes also name the File inside
// the checkout and pin one of Rev, Tag, or Branch.
type PreludeSpec struct {
	Name   string
	Path   string
	Git    string
	Rev    string
	Tag    string
	Branch string
	File   string
}

// IsGit reports whether the prelude is fetched from a git repository.
func (p *PreludeSpec) IsGit() bool {
	return p != nil && p.Git != ""
}

// REPLConfig tunes the interactive prompt.
type REPLConfig struct {
	Prompt string
}

// DiagnosticsConfig tunes diagnostic rendering.
type DiagnosticsConfig struct {
	Color ColorMode
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses lox.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from dir up to the filesystem root looking for lox.yml.
// It returns "" when none exists.
func FindManifest(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(abs, ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return ""
		}
		abs = parent
	}
}

// Dir returns the directory holding the manifest; relative paths in the
// manifest resolve against it.
func (m *Manifest) Dir() string {
	if m == nil || m.Path == "" {
		return ""
	}
	return filepath.Dir(m.Path)
}

// Resolve makes a manifest-relative path absolute.
func (m *Manifest) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Dir(), rel)
}

// LockfilePath returns the lox.lock path next to the manifest.
func (m *Manifest) LockfilePath() string {
	return filepath.Join(m.Dir(), LockfileName)
}

// GitPreludes returns the preludes that need fetching, in manifest order.
func (m *Manifest) GitPreludes() []*PreludeSpec {
	var out []*PreludeSpec
	for _, prelude := range m.Preludes {
		if prelude.IsGit() {
			out = append(out, prelude)
		}
	}
	return out
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Diagnostics.Color != "" && !m.Diagnostics.Color.IsValid() {
		errs.Issues = append(errs.Issues, fmt.Sprintf("diagnostics.color has unsupported value %q", m.Diagnostics.Color))
	}

	names := make(map[string]int, len(m.Preludes))
	for i, prelude := range m.Preludes {
		for _, issue := range prelude.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("preludes[%d]: %s", i, issue))
		}
		if prelude.Name == "" || !prelude.IsGit() {
			continue
		}
		if other, exists := names[prelude.Name]; exists {
			errs.Issues = append(errs.Issues, fmt.Sprintf("preludes[%d] and preludes[%d] share name %q", other, i, prelude.Name))
		} else {
			names[prelude.Name] = i
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (p *PreludeSpec) validate() []string {
	var errs []string
	if p.Path != "" && p.Git != "" {
		errs = append(errs, "path preludes cannot also specify git")
	}
	if p.Path == "" && p.Git == "" {
		errs = append(errs, "must specify path or git")
	}
	if p.Git == "" {
		if p.Rev != "" || p.Tag != "" || p.Branch != "" || p.File != "" {
			errs = append(errs, "rev, tag, branch, and file apply only to git preludes")
		}
		return errs
	}
	if p.Name == "" {
		errs = append(errs, "git preludes require a name")
	}
	if p.File == "" {
		errs = append(errs, "git preludes require a file")
	}
	pins := 0
	for _, pin := range []string{p.Rev, p.Tag, p.Branch} {
		if pin != "" {
			pins++
		}
	}
	if pins != 1 {
		errs = append(errs, "git preludes require exactly one of rev, tag, or branch")
	}
	return errs
}

type manifestFile struct {
	Name        string          `yaml:"name"`
	Main        string          `yaml:"main"`
	Preludes    []preludeYAML   `yaml:"preludes"`
	REPL        replYAML        `yaml:"repl"`
	Diagnostics diagnosticsYAML `yaml:"diagnostics"`
}

type replYAML struct {
	Prompt *string `yaml:"prompt"`
}

type diagnosticsYAML struct {
	Color string `yaml:"color"`
}

// preludeYAML accepts either a bare path string or a mapping.
type preludeYAML struct {
	spec PreludeSpec
}

func (p *preludeYAML) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			return fmt.Errorf("manifest: prelude entries must not be null")
		}
		p.spec = PreludeSpec{Path: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Name   string `yaml:"name"`
			Path   string `yaml:"path"`
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
			File   string `yaml:"file"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		p.spec = PreludeSpec{
			Name:   sanitizeSegment(raw.Name),
			Path:   strings.TrimSpace(raw.Path),
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
			File:   strings.TrimSpace(raw.File),
		}
		return nil
	case yaml.AliasNode:
		return p.UnmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("manifest: expected string or mapping for prelude, found %s", value.ShortTag())
	}
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:     path,
		Name:     sanitizeSegment(mf.Name),
		Main:     strings.TrimSpace(mf.Main),
		Preludes: make([]*PreludeSpec, 0, len(mf.Preludes)),
		REPL:     REPLConfig{Prompt: DefaultPrompt},
		Diagnostics: DiagnosticsConfig{
			Color: ColorMode(strings.ToLower(strings.TrimSpace(mf.Diagnostics.Color))),
		},
	}
	if mf.REPL.Prompt != nil {
		result.REPL.Prompt = *mf.REPL.Prompt
	}
	for _, item := range mf.Preludes {
		spec := item.spec
		if spec.Name == "" && spec.Path != "" {
			spec.Name = sanitizeSegment(strings.TrimSuffix(filepath.Base(spec.Path), filepath.Ext(spec.Path)))
		}
		result.Preludes = append(result.Preludes, &spec)
	}
	return result
}

// DefaultPrompt is shown by the REPL unless the manifest overrides it.
const DefaultPrompt = "> "

func sanitizeSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	seg = strings.ReplaceAll(seg, "-", "_")
	return seg
}
