// Package pkg provides the core libraries for daygrid calendar rendering.
//
// # Overview
//
// Daygrid turns event schedules into overlap-aware day and week grids:
// events that share time share the available width. The pkg directory is
// organized into four main areas:
//
//  1. [schedule] - Domain types (events, intervals, clock parsing)
//  2. [source] - Event loading (ICS feeds, schedule files, manifests)
//  3. [render] - Layout computation and output sinks (SVG, HTML, PNG)
//  4. [pipeline] - Orchestration (load → layout → render) with caching
//
// Supporting packages: [cache] (file/redis backends), [store] (layout
// snapshots), [config] (server configuration), [server] (HTTP API),
// [errors], [observability], [httputil], and [buildinfo].
//
// # Architecture
//
// The typical data flow through daygrid:
//
//	ICS feed / schedule file / manifest
//	         ↓
//	    [source] package (load + expand recurrences)
//	         ↓
//	    [render/grid/layout] package (overlap groups + geometry)
//	         ↓
//	    [render/grid/sink] package (SVG/HTML output)
//	         ↓
//	    SVG/HTML/PNG/JSON output
//
// # Quick Start
//
// Load a schedule and render a day grid:
//
//	import (
//	    "context"
//	    "github.com/daygrid/daygrid/pkg/pipeline"
//	    "github.com/daygrid/daygrid/pkg/source/local"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Source:  local.NewFileSource("events.json"),
//	    Date:    "2026-09-03",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// [schedule]: github.com/daygrid/daygrid/pkg/schedule
// [source]: github.com/daygrid/daygrid/pkg/source
// [render]: github.com/daygrid/daygrid/pkg/render
// [pipeline]: github.com/daygrid/daygrid/pkg/pipeline
// [cache]: github.com/daygrid/daygrid/pkg/cache
// [store]: github.com/daygrid/daygrid/pkg/store
// [config]: github.com/daygrid/daygrid/pkg/config
// [server]: github.com/daygrid/daygrid/pkg/server
// [errors]: github.com/daygrid/daygrid/pkg/errors
// [observability]: github.com/daygrid/daygrid/pkg/observability
// [httputil]: github.com/daygrid/daygrid/pkg/httputil
// [buildinfo]: github.com/daygrid/daygrid/pkg/buildinfo
package pkg
