// Package config holds the bridge's tunable settings.
//
// Settings load from a TOML file, with every field optional and
// defaulted; a missing file is not an error. The host can overlay its
// own configuration at runtime through ApplyHostJSON, which reads a
// JSON fragment of camelCase keys. Config watches the settings file
// and reloads it on change, notifying subscribed observers with the
// fresh snapshot.
//
// All delay settings are tolerances that shape debouncing and retry
// windows, not protocol guarantees.
package config
