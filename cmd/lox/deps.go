package main

import (
	"errors"
	"fmt"
	"os"

	"lox/interpreter-go/pkg/driver"
)

// runDeps fetches every git prelude and rewrites lox.lock when pins change.
func runDeps(manifest *driver.Manifest) int {
	if manifest == nil {
		fmt.Fprintf(os.Stderr, "lox deps requires a %s\n", driver.ManifestFileName)
		return exitUsage
	}
	home, err := resolveLoxHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve LOX_HOME: %v\n", err)
		return exitFailure
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Git preludes: %d\n", len(manifest.GitPreludes()))
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", home)

	lockPath := manifest.LockfilePath()
	lock, err := driver.LoadLockfile(lockPath)
	existing := err == nil
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(os.Stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
			return exitFailure
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
	default:
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return exitFailure
	}

	changed, err := driver.SyncPreludes(manifest, lock, driver.NewGitFetcher(home))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to fetch preludes: %v\n", err)
		return exitFailure
	}
	for _, entry := range lock.Preludes {
		fmt.Fprintf(os.Stdout, "  %s %s\n", entry.Name, entry.Source)
	}

	if changed || !existing {
		lock.Tool = cliToolVersion
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return exitIOError
		}
		action := "Updated"
		if !existing {
			action = "Wrote"
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockfileName, lock.Path)
	} else {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockfileName, lock.Path)
	}
	return exitOK
}
