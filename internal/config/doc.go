// Package config loads the newsletter configuration from the environment,
// optionally seeded from a dotenv file.
package config
