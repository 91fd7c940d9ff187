// Package assistant provides embedded runtime resources.
package assistant

import (
	_ "embed"
)

// ConfigTemplate is the commented default configuration written by
// "assistant init". Loading it yields config.DefaultConfig.
//
//go:embed templates/config.yaml
var ConfigTemplate []byte
