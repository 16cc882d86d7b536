// Package config resolves run options from defaults, docket.toml, the
// DOCKETOPT environment variable and command-line flags, in that order.
package config
