// Package history records pipeline runs in a SQLite ledger.
//
// Each run is inserted when it starts, its stage is updated as the pipeline
// advances and it is closed with an outcome: the output path on success or
// the error kind and message on failure. The ledger lives in the state
// directory and is opened in WAL mode so the CLI can list runs while another
// process is writing.
package history
