// Package snippet renders broker connection examples for a selected client
// language and protocol.
//
// A Renderer looks up the catalog entry for the (protocol, language) pair,
// computes a fixed set of named slots from the form state, environment and
// target, then executes the entry's pongo2 templates once with those slots.
// Language specific fragments (credential names, account clauses, async and
// blocking flags, header lines) come from a capability table rather than
// branching inside the render pipeline.
//
// Rendering is deterministic: the same Request always yields byte-identical
// Output, and empty form values surface as angle-bracket hints such as
// <station-name> instead of failing.
package snippet
