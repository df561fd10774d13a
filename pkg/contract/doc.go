/*
Package contract defines the Prompt Contract — the typed record the Graft
compiler extracts from a prompt document — and the transformer that builds
it from a parsed dsl.Document.

The contract is built once per input and is immutable afterwards. Two entry
points produce one:

  - Transform: the canonical path, fed by the dsl lexer and AST builder.
  - Sketch: a lighter regex-based fast path for interactive use. It accepts
    sloppier input and skips position tracking; it is never a silent
    substitute for Transform.

Format serializes a contract back to canonical DSL text, so that
Transform(Parse(Tokenize(Format(c)))) reproduces c.
*/
package contract
