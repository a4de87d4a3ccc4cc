// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. It provides
// type-safe access to the settings of the HTTP server, database, token
// issuance, and the real-time relay while keeping configuration details
// separate from business logic.
package config
