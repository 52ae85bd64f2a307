package driver

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tevino/abool/v2"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

// Result is the outcome of running one chunk of source.
type Result struct {
	Name         string
	Diagnostics  []diagnostics.Diagnostic
	RuntimeError *runtime.Error
}

// OK reports whether the chunk ran without any fault.
func (r Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// Session owns one interpreter, so globals persist across Run calls, plus
// the sticky error flags the CLI turns into exit codes.
type Session struct {
	interp          *interpreter.Interpreter
	hadError        *abool.AtomicBool
	hadRuntimeError *abool.AtomicBool
}

// NewSession builds a session; opts configure the underlying interpreter.
func NewSession(opts ...interpreter.Option) *Session {
	return &Session{
		interp:          interpreter.New(opts...),
		hadError:        abool.New(),
		hadRuntimeError: abool.New(),
	}
}

// Run scans and parses source. If either stage reported anything, nothing is
// executed. Otherwise the statements run in the global scope until the first
// runtime fault.
func (s *Session) Run(name, source string) Result {
	result := Result{Name: name}

	tokens, scanDiags := scanner.Scan(source)
	stmts, parseDiags := parser.Parse(tokens)
	result.Diagnostics = append(append(result.Diagnostics, scanDiags...), parseDiags...)
	if len(result.Diagnostics) > 0 {
		s.hadError.Set()
		return result
	}

	if err := s.interp.Interpret(stmts); err != nil {
		var rtErr *runtime.Error
		if !errors.As(err, &rtErr) {
			rtErr = runtime.NewError(tokens[len(tokens)-1], err.Error())
		}
		result.RuntimeError = rtErr
		result.Diagnostics = append(result.Diagnostics, diagnostics.Runtime(rtErr.Token, rtErr.Message))
		s.hadRuntimeError.Set()
	}
	return result
}

// HadError reports whether any static fault was seen since the last Reset.
func (s *Session) HadError() bool {
	return s.hadError.IsSet()
}

// HadRuntimeError reports whether any runtime fault was seen since the last
// Reset.
func (s *Session) HadRuntimeError() bool {
	return s.hadRuntimeError.IsSet()
}

// Reset clears both flags. Globals are kept.
func (s *Session) Reset() {
	s.hadError.UnSet()
	s.hadRuntimeError.UnSet()
}

// Globals exposes the global environment.
func (s *Session) Globals() *runtime.Environment {
	return s.interp.GlobalEnvironment()
}

// Tokens renders the token stream of source, one token per line.
func (s *Session) Tokens(source string) (string, []diagnostics.Diagnostic) {
	tokens, diags := scanner.Scan(source)
	var b strings.Builder
	for _, tok := range tokens {
		fmt.Fprintf(&b, "%d %s\n", tok.Line, tok)
	}
	if len(diags) > 0 {
		s.hadError.Set()
	}
	return b.String(), diags
}

// Tree renders the parsed statements of source in prefix form.
func (s *Session) Tree(source string) (string, []diagnostics.Diagnostic) {
	tokens, diags := scanner.Scan(source)
	stmts, parseDiags := parser.Parse(tokens)
	diags = append(diags, parseDiags...)
	if len(diags) > 0 {
		s.hadError.Set()
	}
	return ast.Format(stmts), diags
}

// PreludeError reports a prelude that failed to load or run.
type PreludeError struct {
	Name   string
	Path   string
	Result Result
	Err    error
}

func (e *PreludeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prelude %q: %v", e.Name, e.Err)
	}
	if len(e.Result.Diagnostics) > 0 {
		return fmt.Sprintf("prelude %q (%s): %s", e.Name, e.Path, e.Result.Diagnostics[0])
	}
	return fmt.Sprintf("prelude %q (%s) failed", e.Name, e.Path)
}

func (e *PreludeError) Unwrap() error {
	return e.Err
}

// LoadPreludes runs every manifest prelude in order in the global scope.
// Git preludes must already be locked and present in fetcher's cache; their
// checksum is verified against the lock before running.
func (s *Session) LoadPreludes(m *Manifest, lock *Lockfile, fetcher *GitFetcher) error {
	if m == nil {
		return nil
	}
	for _, prelude := range m.Preludes {
		path, err := preludePath(m, prelude, lock, fetcher)
		if err != nil {
			return &PreludeError{Name: prelude.Name, Err: err}
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return &PreludeError{Name: prelude.Name, Path: path, Err: err}
		}
		if result := s.Run(path, string(source)); !result.OK() {
			return &PreludeError{Name: prelude.Name, Path: path, Result: result}
		}
	}
	return nil
}

func preludePath(m *Manifest, prelude *PreludeSpec, lock *Lockfile, fetcher *GitFetcher) (string, error) {
	if !prelude.IsGit() {
		return m.Resolve(prelude.Path), nil
	}
	entry := lock.Find(prelude.Name)
	if entry == nil {
		return "", fmt.Errorf("not locked; run `lox deps`")
	}
	if fetcher == nil {
		return "", fmt.Errorf("no prelude cache configured")
	}
	path := fetcher.FilePath(entry, prelude.File)
	sum, err := FileChecksum(path)
	if err != nil {
		return "", fmt.Errorf("missing from cache (run `lox deps`): %w", err)
	}
	if entry.Checksum != "" && sum != entry.Checksum {
		return "", fmt.Errorf("checksum mismatch for %s: lock has %s, found %s", path, entry.Checksum, sum)
	}
	return path, nil
}

// SyncPreludes fetches every git prelude, records it in lock, and drops lock
// entries the manifest no longer names. It reports whether lock changed.
func SyncPreludes(m *Manifest, lock *Lockfile, fetcher *GitFetcher) (bool, error) {
	changed := false
	keep := make(map[string]struct{})
	for _, prelude := range m.GitPreludes() {
		entry, err := fetcher.Fetch(prelude)
		if err != nil {
			return changed, err
		}
		keep[entry.Name] = struct{}{}
		if lock.Upsert(entry) {
			changed = true
		}
	}
	if lock.Prune(keep) {
		changed = true
	}
	return changed, nil
}
