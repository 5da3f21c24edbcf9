// Package services defines shared utilities consumed by the pipeline stages
// and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging and the
//     run history.
//   - Structured error markers plus the Wrap helper so every failure carries a
//     classifiable kind (parse, missing resource, synthesis, transcription,
//     render) alongside its cause.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
