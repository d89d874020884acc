// Package services defines shared utilities consumed by the pipeline sources,
// decoders, and external collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, scenario names, source names, and
//     pipeline stages for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the datamining error taxonomy (unsupported version, truncated
//     stream, format drift, missing upstream file, transport failure).
//
// Use these helpers when wiring new sources so failure containment and
// observability stay uniform across scenarios.
package services
