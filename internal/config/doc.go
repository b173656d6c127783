// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, a .env file, an optional
// config.yaml). Every key can be set through a CARDS_ prefixed environment
// variable, e.g. auth.jwt_secret as CARDS_AUTH_JWT_SECRET. It provides
// type-safe access to application settings needed by different components
// while keeping configuration details separate from business logic.
package config
