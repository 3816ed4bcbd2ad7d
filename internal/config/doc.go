// Package config loads, normalizes, and validates subpost configuration data.
//
// It supplies repository defaults (model choices, destinations, the
// postscript pool), expands user paths including tilde shortcuts, reads TOML
// files, loads a .env file, and honours environment fallbacks such as
// OPENAI_API_KEY and ABLINK_API_KEY.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
