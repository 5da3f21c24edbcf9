// Package preflight provides readiness checks for the external services
// and filesystem paths that storyreel depends on.
//
// These checks run in two contexts:
//   - The make command calls RunAll before starting a run so a missing
//     directory or a rejected API key fails fast instead of after narration.
//   - "storyreel doctor" prints every check, the binary requirements from
//     CheckSystemDeps and the run history status.
//
// Provider-specific checks are gated by the configured provider; the OpenAI
// key is only verified when a provider uses OpenAI.
package preflight
