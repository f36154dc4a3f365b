// Package config loads and validates the animutools configuration.
//
// Defaults cover the whole surface so the tool runs with no config file
// present; a TOML file at ~/.config/animutools/config.toml (or a
// project-local animutools.toml) overrides them.
package config
