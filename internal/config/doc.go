// Package config manages user-level settings stored at ~/.ljytool/config.yaml.
// It wraps Viper for reading and writing keys such as the script path used by
// the run-script command, and validates the file against an embedded schema.
package config
