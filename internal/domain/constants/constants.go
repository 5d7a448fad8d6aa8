// Package constants holds shared domain-level constant values.
package constants

// Pub/Sub provider names accepted in configuration.
const (
	PubSubProviderGoogle = "google"
	PubSubProviderNoop   = "noop"
)

// Deployment environment names accepted in configuration.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)
