// Package pkg provides the core libraries for Reflow graph diagnostics.
//
// # Overview
//
// Reflow loads, normalizes, and renders the dependency graphs a compiler
// front end emits for each function. A graph is a sea-of-nodes style IR:
// every node lists what it depends on, control flow is an edge like any
// other, and evaluation order is whatever the dependencies admit. The pkg
// directory is organized into four main areas:
//
//  1. [ir] - The graph core (node taxonomy, output derivation, canonicalization)
//  2. [irjson] - The JSON interchange format builders emit
//  3. [render] - DOT/SVG/PNG/PDF visualization
//  4. [pipeline] - Orchestration (load → populate → canonicalize → render)
//
// # Architecture
//
// The typical data flow through Reflow:
//
//	Builder-emitted graph JSON
//	         ↓
//	    [irjson] package (decode + validate)
//	         ↓
//	    [ir] package (populate outputs, canonicalize ids)
//	         ↓
//	    [render] package (DOT → SVG → PNG/PDF)
//	         ↓
//	    text/JSON/SVG/PDF/PNG output
//
// # Quick Start
//
// Load a graph and render it to SVG:
//
//	import (
//	    "github.com/matzehuels/reflow/pkg/ir"
//	    "github.com/matzehuels/reflow/pkg/irjson"
//	    "github.com/matzehuels/reflow/pkg/render"
//	)
//
//	// 1. Load the builder's JSON
//	g, _ := irjson.ReadGraphFile("incr.json")
//
//	// 2. Derive forward edges and canonicalize ids
//	_ = ir.PopulateOutputs(g)
//	g, _ = ir.Canonicalize(g)
//
//	// 3. Render
//	dot := render.ToDOT(g, render.Options{})
//	svg, _ := render.SVG(dot)
//
// # Main Packages
//
// ## Graph Core
//
// [ir] - The thirteen node kinds, the dependency and reference traversal
// protocols, output derivation, and order-normalizing canonicalization.
// This package mutates nothing except derived outputs.
//
// [irjson] - Round-trip faithful JSON serialization. Storage order is part
// of the contract because canonicalization is order-sensitive.
//
// ## Rendering
//
// [render] - Graphviz-based node-link diagrams. Value edges are solid,
// control edges dashed, scope anchors grey. SVG converts onward to PNG and
// PDF via rsvg-convert.
//
// ## Infrastructure
//
// [cache] - Content-addressed artifact cache keyed by graph hash and
// format, so re-rendering an unchanged graph is free.
//
// [httputil] - Retrying HTTP fetch for graphs served over the network.
//
// [pipeline] - Ties the stages together behind one Runner used by every
// CLI command.
//
// [observability] - Optional stage and cache hooks for embedders that want
// timing or hit-rate metrics.
package pkg
