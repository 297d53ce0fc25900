// Package config loads, normalizes, and validates shelf configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads optional .env files, and honours
// environment fallbacks such as TMDB_API_KEY and GITHUB_TOKEN. The Config type
// centralizes every knob the CLI needs: where the document lives (local file
// or GitHub gist), where local state is kept, catalog credentials, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
