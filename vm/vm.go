package vm

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tliron/commonlog"
)

// Options configures a VM. Zero values select the defaults: a local
// forth.db SQLite file, DefaultStackSize cells, and stdout.
type Options struct {
	DBPath    string
	Engine    string // "sqlite" (default) or "duckdb"
	StackSize int
	Out       io.Writer
}

// VM is one explicitly owned interpreter context: the data stack, the word
// dictionary, the compile state, and the single backing-store handle. It is
// not safe for concurrent use and is not meant to be.
type VM struct {
	stack   *Stack
	dict    *Dictionary
	store   *Store
	dialect Dialect
	comp    compiler
	out     io.Writer
	log     commonlog.Logger

	// current line cursor
	tokens []string
	tpos   int
}

// New creates a VM, opens its backing store, installs the primitive
// vocabulary, and loads every persisted word before any input is
// processed. A store that cannot be opened is fatal.
func New(opts Options) (*VM, error) {
	if opts.DBPath == "" {
		opts.DBPath = "forth.db"
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	dialect, err := DialectFor(opts.Engine)
	if err != nil {
		return nil, err
	}
	store, err := OpenStore(dialect, opts.DBPath)
	if err != nil {
		return nil, err
	}

	vm := &VM{
		stack:   NewStack(opts.StackSize),
		dict:    NewDictionary(),
		store:   store,
		dialect: dialect,
		out:     opts.Out,
		log:     commonlog.GetLogger("forthdb.vm"),
	}
	vm.registerPrimitives()

	if err := vm.loadWords(); err != nil {
		store.Close()
		return nil, err
	}
	return vm, nil
}

// loadWords re-translates every stored program to a fresh handle and
// registers it. A word whose stored program no longer translates is
// skipped with a warning, like a corrupt blob.
func (vm *VM) loadWords() error {
	stored, err := vm.store.LoadAll()
	if err != nil {
		return err
	}
	loaded := 0
	for _, sw := range stored {
		cw, err := newCompiledWord(sw.Name, sw.Program, vm.store.DB(), vm.dialect)
		if err != nil {
			vm.log.Warningf("skipping word %q: %s", sw.Name, err.Error())
			continue
		}
		vm.dict.Register(Word{Name: sw.Name, Kind: WordCompiled, Compiled: cw})
		loaded++
	}
	if loaded > 0 {
		vm.log.Infof("loaded %d words from the store", loaded)
	}
	return nil
}

// Close releases the backing-store handle.
func (vm *VM) Close() error {
	return vm.store.Close()
}

// Compiling reports whether a definition is currently open.
func (vm *VM) Compiling() bool {
	return vm.comp.state != stateInterpreting
}

// WordCount returns the dictionary size, primitives included.
func (vm *VM) WordCount() int {
	return vm.dict.Len()
}

// WordNames lists the dictionary in definition order as "name (kind)".
func (vm *VM) WordNames() []string {
	words := vm.dict.Words()
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = fmt.Sprintf("%s (%s)", w.Name, w.Kind)
	}
	return out
}

// Describe renders a compiled word's disassembly and translated SQL, for
// the REPL's `see` command. Primitives describe themselves as native.
func (vm *VM) Describe(name string) (string, bool) {
	w, ok := vm.dict.Find(name)
	if !ok {
		return "", false
	}
	if w.Kind != WordCompiled {
		return fmt.Sprintf("%s: native (%s)\n", w.Name, w.Kind), true
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", w.Name)
	b.WriteString(w.Compiled.Program.Disassemble())
	fmt.Fprintf(&b, "  => %s\n", w.Compiled.Plan.SQL)
	return b.String(), true
}
