/*
Package workflow defines the generated workflow graph — nodes plus typed
connections in the exact JSON shape the target automation runtime imports —
and the generator that maps a Prompt Contract onto one.

A Workflow is constructed once per contract and is immutable afterwards;
validation re-reads it without mutation. The JSON field names of Workflow,
Node and Link are a stable external interface: the schema validator, the
exporter and the runtime importer all depend on them.
*/
package workflow
