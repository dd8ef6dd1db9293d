package pyast

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ProjectIndex is the static replacement for a running Python interpreter's
// module table (sys.modules): it maps dotted module names to filesystem
// paths up front (Discover), then parses source on demand, with an LRU
// cache bounding how many parsed trees are held in memory at once.
//
// A ProjectIndex is not safe for concurrent Discover calls. A compile pass
// walks routes and their dependency trees sequentially on a single
// goroutine, so Module lookups after Discover only ever happen from that
// one caller; the underlying LRU cache is internally synchronized, but
// nothing in this codebase currently calls Module from more than one
// goroutine at a time.
type ProjectIndex struct {
	Root  string
	paths map[string]string // dotted module name -> file path

	cache *lru.Cache[string, *Module]
}

// NewProjectIndex builds an index bounded to cacheSize parsed modules held
// in memory simultaneously. A cacheSize of 0 falls back to a sane default.
func NewProjectIndex(cacheSize int) *ProjectIndex {
	if cacheSize <= 0 {
		cacheSize = 512
	}
	cache, _ := lru.New[string, *Module](cacheSize)
	return &ProjectIndex{paths: map[string]string{}, cache: cache}
}

// Discover walks rootDir and registers every ".py" file's dotted module
// name against its path, without parsing anything yet. The dotted name is
// the file's path relative to rootDir ("app/routers/users.py" becomes
// "app.routers.users"), and a package's "__init__.py" is registered under
// the package name. Every directory counts, whether or not it contains an
// "__init__.py".
func (p *ProjectIndex) Discover(rootDir string) error {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("pyast: resolve project root: %w", err)
	}
	p.Root = abs

	return filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".py") {
			return nil
		}
		name := p.moduleNameFor(path)
		p.paths[name] = path
		return nil
	})
}

func (p *ProjectIndex) moduleNameFor(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, ".py")
	rel = strings.TrimSuffix(rel, string(filepath.Separator)+"__init__")
	parts := strings.Split(rel, string(filepath.Separator))
	return strings.Join(parts, ".")
}

// Module parses (or returns from cache) the module registered under name.
// A source-read or parse failure is reported as ErrSourceUnavailable so
// the caller can skip that one module without aborting the whole pass —
// one unreadable file should never sink analysis of the rest of a
// project.
func (p *ProjectIndex) Module(name string) (*Module, error) {
	if mod, ok := p.cache.Get(name); ok {
		return mod, nil
	}

	path, ok := p.paths[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}

	mod := newModule(name, path, source, tree)
	p.cache.Add(name, mod)
	return mod, nil
}

// HasModule reports whether a dotted module name was registered by
// Discover, without triggering a parse.
func (p *ProjectIndex) HasModule(name string) bool {
	_, ok := p.paths[name]
	return ok
}

// ModuleNames returns every dotted module name Discover registered, in no
// particular order.
func (p *ProjectIndex) ModuleNames() []string {
	names := make([]string, 0, len(p.paths))
	for name := range p.paths {
		names = append(names, name)
	}
	return names
}
