// Package textutil holds small text helpers shared by story ingestion and the
// pipeline's file naming.
//
// Fingerprints are term-frequency vectors over case-folded tokens of three or
// more letters or digits; their cosine similarity spots reposted stories in a
// harvest. The sanitize helpers turn titles into
// names that are safe on every filesystem the pipeline writes to.
package textutil
