// Package config holds the CLI configuration: defaults, flag-populated
// settings, validation, and the optional .imgscrub YAML file that
// overrides the built-in defaults per directory or per user.
package config
