package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lox [-h] [-V] [-C dir] [-m manifest] [-c auto|always|never] [-t tokens|ast] [script]")
	fmt.Fprintln(os.Stderr, "  lox [options] run     run the manifest main script after its preludes")
	fmt.Fprintln(os.Stderr, "  lox [options] deps    fetch git preludes and write lox.lock")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "A script file named run or deps must be given with a path, as in ./run.")
	fmt.Fprintln(os.Stderr, "With no script, lox starts a prompt. Prompt commands: :env, :history, :quit")
}
