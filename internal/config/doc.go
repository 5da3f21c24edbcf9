// Package config reads storyreel's TOML configuration.
//
// Load picks the file (flag, STORYREEL_CONFIG, the user config dir, then
// ./storyreel.toml), loads a neighbouring .env, fills defaults, expands "~"
// in paths and validates provider names, caption styling and encoder
// settings. Unknown keys are rejected. OPENAI_API_KEY and HF_TOKEN fill the
// credentials the file leaves empty.
package config
