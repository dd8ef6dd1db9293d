// Package compiler orchestrates a full compile pass: it discovers routes
// via internal/framework, walks each route's handler and dependency tree
// via internal/callgraph, extracts response records via internal/schema,
// and merges them into an OpenAPI-shaped document.
package compiler

import (
	"fmt"

	"github.com/ManiMozaffar/richapi-go/internal/callgraph"
	"github.com/ManiMozaffar/richapi-go/internal/framework"
	"github.com/ManiMozaffar/richapi-go/internal/output"
	"github.com/ManiMozaffar/richapi-go/internal/pyast"
	"github.com/ManiMozaffar/richapi-go/internal/registry"
	"github.com/ManiMozaffar/richapi-go/internal/schema"
)

// Target names the application object a compile pass enriches:
// "module.path:attribute", e.g. ModuleName "app.main", AppName "api".
type Target struct {
	ModuleName string
	AppName    string
}

// Options configures a single Compile invocation.
type Options struct {
	ScanPrefixes   []string
	ExceptionRoots []string
	Logger         *output.Logger
}

// Compile runs one full pass over target's routes and returns the
// enriched OpenAPI document as a generic map, ready for json.Marshal. A
// pass runs single-threaded and synchronously; the VisitedTable the
// Walker owns is confined to this one pass and discarded on return.
func Compile(idx *pyast.ProjectIndex, target Target, opts Options) (map[string]interface{}, error) {
	logger := opts.Logger
	if logger == nil {
		logger = output.NewLogger(output.VerbosityQuiet)
	}

	routes, err := framework.DiscoverRoutes(idx, target.ModuleName, target.AppName)
	if err != nil {
		return nil, fmt.Errorf("compiler: discover routes in %s: %w", target.ModuleName, err)
	}
	logger.Progress("discovered %d route(s) on %s.%s", len(routes), target.ModuleName, target.AppName)

	filter := registry.NewFilter(registry.NewScanScope(opts.ScanPrefixes))
	walker := callgraph.NewWalker(idx, filter, opts.ExceptionRoots, logger)

	doc := map[string]interface{}{
		"openapi": "3.1.0",
		"paths":   map[string]interface{}{},
		"components": map[string]interface{}{
			"schemas": map[string]interface{}{},
		},
	}

	for _, route := range routes {
		if !route.IncludeInSchema {
			logger.Debug("skipping %s (include_in_schema=False)", route.Path)
			continue
		}

		set := schema.NewExceptionSet()
		for _, fn := range route.Callables() {
			if fn == nil {
				continue
			}
			for _, site := range walker.Walk(fn) {
				rec, ok := schema.BuildRecord(site)
				if !ok {
					continue
				}
				set.Add(rec)
			}
		}

		for _, method := range route.Methods {
			schema.MergeInto(doc, route.Path, method, set)
		}
		logger.Statistic("%s %s: %d distinct exception response(s)", route.Methods, route.Path, len(set.Records()))
	}

	return doc, nil
}

// LazyCompiler defers compilation until Schema is first requested and
// caches the result, the same lazily-on-first-access timing FastAPI uses
// for its own OpenAPI schema rather than recomputing it eagerly at
// import time.
type LazyCompiler struct {
	idx    *pyast.ProjectIndex
	target Target
	opts   Options

	compiled bool
	doc      map[string]interface{}
	err      error
}

// NewLazyCompiler builds a LazyCompiler that has not yet run.
func NewLazyCompiler(idx *pyast.ProjectIndex, target Target, opts Options) *LazyCompiler {
	return &LazyCompiler{idx: idx, target: target, opts: opts}
}

// Schema runs Compile on first call and returns the cached document on
// every subsequent call, regardless of outcome.
func (c *LazyCompiler) Schema() (map[string]interface{}, error) {
	if !c.compiled {
		c.doc, c.err = Compile(c.idx, c.target, c.opts)
		c.compiled = true
	}
	return c.doc, c.err
}
