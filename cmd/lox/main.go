package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"

	"lox/interpreter-go/pkg/driver"
)

const cliToolVersion = "lox-cli 0.1.0-dev"

// Exit codes follow sysexits(3).
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 64
	exitStatic  = 65
	exitRuntime = 70
	exitIOError = 74
)

type dumpMode string

const (
	dumpNone   dumpMode = ""
	dumpTokens dumpMode = "tokens"
	dumpAST    dumpMode = "ast"
)

type cliOptions struct {
	dir          string
	manifestPath string
	color        string
	dump         dumpMode
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, rest, code, done := parseArgs(args)
	if done {
		return code
	}

	if opts.dir != "" {
		if err := os.Chdir(opts.dir); err != nil {
			fmt.Fprintf(os.Stderr, "lox: chdir to %s: %v\n", opts.dir, err)
			return exitFailure
		}
	}

	manifest, err := loadManifest(opts.manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return exitFailure
	}

	mode, err := colorMode(opts.color, manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox: %v\n", err)
		return exitUsage
	}
	renderer := driver.NewRenderer(os.Stderr, mode)

	if len(rest) > 0 {
		switch rest[0] {
		case "deps":
			if len(rest) > 1 {
				fmt.Fprintf(os.Stderr, "lox deps does not take arguments (received %s)\n", strings.Join(rest[1:], " "))
				return exitUsage
			}
			return runDeps(manifest)
		case "run":
			if len(rest) > 1 {
				fmt.Fprintf(os.Stderr, "lox run does not take arguments (received %s)\n", strings.Join(rest[1:], " "))
				return exitUsage
			}
			if manifest == nil || manifest.Main == "" {
				fmt.Fprintf(os.Stderr, "lox run requires a %s with a main entry\n", driver.ManifestFileName)
				return exitUsage
			}
			return runScript(manifest.Resolve(manifest.Main), manifest, renderer, opts.dump)
		}
	}

	switch len(rest) {
	case 0:
		return runPrompt(manifest, renderer, opts.dump)
	case 1:
		return runScript(rest[0], manifest, renderer, opts.dump)
	default:
		printUsage()
		return exitUsage
	}
}

// parseArgs returns done when the process should exit with code right away.
func parseArgs(args []string) (cliOptions, []string, int, bool) {
	var opts cliOptions
	argv := append([]string{"lox"}, args...)
	parsed, optind, err := getopt.Getopts(argv, "hVC:m:c:t:")
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox: %v\n", err)
		printUsage()
		return opts, nil, exitUsage, true
	}
	for _, opt := range parsed {
		switch opt.Option {
		case 'h':
			printUsage()
			return opts, nil, exitOK, true
		case 'V':
			fmt.Fprintln(os.Stdout, cliToolVersion)
			return opts, nil, exitOK, true
		case 'C':
			opts.dir = opt.Value
		case 'm':
			opts.manifestPath = opt.Value
		case 'c':
			opts.color = opt.Value
		case 't':
			switch dumpMode(opt.Value) {
			case dumpTokens, dumpAST:
				opts.dump = dumpMode(opt.Value)
			default:
				fmt.Fprintf(os.Stderr, "lox: unknown -t mode %q (want tokens or ast)\n", opt.Value)
				return opts, nil, exitUsage, true
			}
		}
	}
	return opts, argv[optind:], exitOK, false
}

// loadManifest reads an explicit manifest, or the nearest lox.yml above the
// working directory. No manifest at all is not an error.
func loadManifest(explicit string) (*driver.Manifest, error) {
	path := explicit
	if path == "" {
		path = driver.FindManifest(".")
		if path == "" {
			return nil, nil
		}
	}
	return driver.LoadManifest(path)
}

func colorMode(flag string, manifest *driver.Manifest) (driver.ColorMode, error) {
	if flag != "" {
		return driver.ParseColorMode(flag)
	}
	if manifest != nil && manifest.Diagnostics.Color != "" {
		return manifest.Diagnostics.Color, nil
	}
	return driver.ColorAuto, nil
}

func runScript(path string, manifest *driver.Manifest, renderer *driver.Renderer, dump dumpMode) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox: read %s: %v\n", path, err)
		return exitIOError
	}

	session := driver.NewSession()
	if dump != dumpNone {
		return dumpSource(session, string(source), dump, renderer)
	}
	if code, ok := loadPreludes(session, manifest, renderer); !ok {
		return code
	}

	result := session.Run(path, string(source))
	renderer.RenderAll(result.Diagnostics)
	return sessionExitCode(session)
}

func dumpSource(session *driver.Session, source string, dump dumpMode, renderer *driver.Renderer) int {
	render := session.Tree
	if dump == dumpTokens {
		render = session.Tokens
	}
	out, diags := render(source)
	fmt.Fprint(os.Stdout, out)
	renderer.RenderAll(diags)
	return sessionExitCode(session)
}

func loadPreludes(session *driver.Session, manifest *driver.Manifest, renderer *driver.Renderer) (int, bool) {
	if manifest == nil || len(manifest.Preludes) == 0 {
		return exitOK, true
	}
	lock, err := loadLockfileForManifest(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitFailure, false
	}
	var fetcher *driver.GitFetcher
	if len(manifest.GitPreludes()) > 0 {
		home, err := resolveLoxHome()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to resolve LOX_HOME: %v\n", err)
			return exitFailure, false
		}
		fetcher = driver.NewGitFetcher(home)
	}
	if err := session.LoadPreludes(manifest, lock, fetcher); err != nil {
		var perr *driver.PreludeError
		if errors.As(err, &perr) && perr.Err == nil {
			fmt.Fprintf(os.Stderr, "in prelude %s (%s):\n", perr.Name, perr.Path)
			renderer.RenderAll(perr.Result.Diagnostics)
			return sessionExitCode(session), false
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		if errors.Is(err, os.ErrNotExist) {
			return exitIOError, false
		}
		return exitFailure, false
	}
	return exitOK, true
}

func sessionExitCode(session *driver.Session) int {
	switch {
	case session.HadError():
		return exitStatic
	case session.HadRuntimeError():
		return exitRuntime
	default:
		return exitOK
	}
}

func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	if manifest == nil {
		return nil, nil
	}
	lockPath := manifest.LockfilePath()
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if len(manifest.GitPreludes()) > 0 {
				return nil, fmt.Errorf("%s missing for %q; run `lox deps`", driver.LockfileName, manifest.Name)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lockfile %s: %w", lockPath, err)
	}
	if lock.Root != manifest.Name {
		return nil, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
	}
	return lock, nil
}

func resolveLoxHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("LOX_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve LOX_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".lox"), nil
}
