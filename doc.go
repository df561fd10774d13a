/*
Package graft compiles a small section-based prompt DSL into workflow graphs and validates them with a categorized rule engine.

The DSL describes an automation in five sections: @meta, @trigger, @workflow, @constraints and @assumptions. Section and field names are recognized in English and Portuguese, so "@gatilho / tipo: webhook" and "@trigger / type: webhook" compile to the same contract.

# Pipeline

The pipeline has three stages, each usable on its own through the pkg/ packages:

  - Compile (pkg/dsl + pkg/contract): tokenize and parse the source, then transform the syntax tree into a contract. The frontend recovers from bad input instead of aborting; everything it finds is reported as positioned issues.
  - Generate (pkg/workflow): turn the contract into a workflow graph with deterministic node ids, auto-layout positions and conditional branching, serialized in the exact JSON shape external tooling consumes.
  - Validate (pkg/rules): run severity-tagged rules over the graph in five categories (input, structural, node, flow, output), aggregated into a report. Rule panics become results, never crashes.

# Usage

The Engine wires the stages together with shared options:

	engine := graft.New(graft.WithLogger(logger))
	res := engine.Generate(src)
	if !res.Success() {
		// res.Compile.Errors and res.Report carry the details
	}
	os.Stdout.Write(res.JSON)

# Surfaces

The cmd/graft CLI exposes the pipeline as compile, generate, validate, graph, serve and mcp commands. pkg/adapters/httpapi serves it over HTTP with an optional Redis-backed workflow store (pkg/store), and pkg/adapters/mcp exposes it as MCP tools.
*/
package graft
