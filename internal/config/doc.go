// Package config loads, normalizes, and validates the NeuralPlay
// configuration file.
//
// Configuration lives in TOML at ~/.config/neuralplay/config.toml with
// sane defaults for every key, so a missing file is not an error. A small
// set of NEURALPLAY_* environment variables (optionally sourced from a
// .env file) override file values for settings that vary per machine.
package config
