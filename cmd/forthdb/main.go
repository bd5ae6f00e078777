// forthdb CLI - interactive REPL and .fth file runner.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/forthdb/manifest"
	"github.com/chazu/forthdb/vm"
)

func main() {
	dbPath := flag.String("db", "", "Database path (overrides forthdb.toml)")
	engine := flag.String("engine", "", "Backing engine: sqlite or duckdb (overrides forthdb.toml)")
	interactive := flag.Bool("i", false, "Start interactive REPL even when files are given")
	verbose := flag.Int("v", 0, "Log verbosity (0 = warnings only)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: forthdb [options] [files.fth...]\n\n")
		fmt.Fprintf(os.Stderr, "Runs the given .fth files in order, or starts a REPL when none are given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  forthdb                    # REPL against ./forth.db\n")
		fmt.Fprintf(os.Stderr, "  forthdb -db words.db       # REPL against words.db\n")
		fmt.Fprintf(os.Stderr, "  forthdb examples/square.fth\n")
	}
	flag.Parse()

	commonlog.Configure(*verbose, nil)

	m, err := manifest.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		m.Database.Path = *dbPath
	}
	if *engine != "" {
		m.Database.Engine = *engine
	}

	machine, err := vm.New(vm.Options{
		DBPath:    m.Database.Path,
		Engine:    m.Database.Engine,
		StackSize: m.VM.StackSize,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer machine.Close()

	files := flag.Args()
	failed := false
	for _, path := range files {
		if err := runFile(machine, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
		}
	}

	if len(files) == 0 || *interactive {
		runREPL(machine)
	}
	if failed {
		os.Exit(1)
	}
}

// runFile feeds a file line by line. A line that fails is reported with
// its number and the run continues with the next line.
func runFile(machine *vm.VM, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		if err := machine.EvalLine(scanner.Text()); err != nil {
			fmt.Fprintf(os.Stderr, "%s:%d: %v\n", path, lineno, err)
		}
	}
	return scanner.Err()
}

// runREPL reads lines until quit/exit or EOF.
func runREPL(machine *vm.VM) {
	fmt.Printf("forthdb (%d words loaded)\n", machine.WordCount())
	fmt.Println("Type 'help' for commands, 'quit' to exit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if machine.Compiling() {
			fmt.Print("...    ")
		} else {
			fmt.Print("forth> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "quit" || line == "exit":
			return
		case line == "help":
			printHelp()
			continue
		case line == "words":
			for _, w := range machine.WordNames() {
				fmt.Printf("  %s\n", w)
			}
			continue
		case strings.HasPrefix(line, "see "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "see "))
			if desc, ok := machine.Describe(name); ok {
				fmt.Print(desc)
			} else {
				fmt.Printf("see: unknown word %q\n", name)
			}
			continue
		}

		if err := machine.EvalLine(line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			fmt.Println()
		}
	}
	fmt.Println()
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  : name ... ;  - Define a new word")
	fmt.Println("  .s            - Show stack contents")
	fmt.Println("  words         - List all defined words")
	fmt.Println("  see NAME      - Show a word's bytecode and SQL")
	fmt.Println("  help          - Show this help")
	fmt.Println("  quit          - Exit the REPL")
	fmt.Println()
	fmt.Println("Primitives: + - * / dup drop swap over . emit .s")
}
