package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/interpreter"
)

// runPrompt reads one line at a time from stdin. Faults are reported and the
// flags reset so the next line starts clean; globals carry over.
func runPrompt(manifest *driver.Manifest, renderer *driver.Renderer, dump dumpMode) int {
	session := driver.NewSession()
	if code, ok := loadPreludes(session, manifest, renderer); !ok {
		return code
	}
	session.Reset()

	prompt := driver.DefaultPrompt
	if manifest != nil {
		prompt = manifest.REPL.Prompt
	}

	past := newHistory(historyLimit)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stdout, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(os.Stdout)
			break
		}
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case ":quit":
			return exitOK
		case ":env":
			printGlobals(session)
			continue
		case ":history":
			past.print(os.Stdout)
			continue
		case "":
			continue
		}
		past.add(line)
		if dump != dumpNone {
			dumpSource(session, line, dump, renderer)
		} else {
			result := session.Run("<stdin>", line)
			renderer.RenderAll(result.Diagnostics)
		}
		session.Reset()
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "lox: read stdin: %v\n", err)
		return exitIOError
	}
	return exitOK
}

func printGlobals(session *driver.Session) {
	globals := session.Globals()
	for _, name := range globals.Keys() {
		value, _ := globals.Lookup(name)
		fmt.Fprintf(os.Stdout, "%s = %s\n", name, interpreter.Stringify(value))
	}
}
