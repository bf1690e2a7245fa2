// Package diag defines the diagnostic model shared by all analysis phases.
//
// Diagnostic is the central record: severity, a compact numeric Code with a
// stable string ID and a classification slug, a human message, the primary
// source span, and optional notes. Phases emit through a diag.Reporter so
// that producers stay decoupled from storage; diag.BagReporter aggregates
// into a Bag, which supports merging, deterministic sorting, and
// deduplication.
//
// Diagnostics are append-only outputs of a single analysis run. Keep the data
// model deterministic: the golden-output harness serialises Bags verbatim and
// any ordering or wording change breaks stored snapshots.
package diag
