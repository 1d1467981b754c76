// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container for the
// storefront server. It aggregates all sub-configurations and is populated by
// merging defaults, environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds session token and password reset parameters.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the relational database and the Redis
	// session revocation store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Mail holds SMTP settings used to deliver password reset emails.
	Mail Mail `envPrefix:"MAIL_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control sessions
// and the password reset flow.
type App struct {
	// TokenSignKey is the secret key used to sign and verify session tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued session token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a session token remains valid.
	// Defaults to one year, the lifetime of the session cookie.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// ResetTokenDuration specifies how long a password reset token remains
	// valid after it was requested.
	// Env: APP_RESET_TOKEN_DURATION
	ResetTokenDuration time.Duration `env:"RESET_TOKEN_DURATION"`

	// FrontendURL is the base URL of the storefront web frontend; reset links
	// in emails point to <FrontendURL>/reset.
	// Env: APP_FRONTEND_URL
	FrontendURL string `env:"FRONTEND_URL"`

	// SecureCookie sets the Secure attribute on the session cookie.
	// Env: APP_SECURE_COOKIE
	SecureCookie bool `env:"SECURE_COOKIE"`

	// LogLevel is the minimal zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Redis holds the session revocation store settings.
	Redis Redis `envPrefix:"REDIS_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN selects and configures the database.
	// "postgres://" or "postgresql://" URLs use PostgreSQL via pgx;
	// "sqlite://<path>" or "file:<path>" use SQLite.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Redis holds connection settings for the session revocation store. When
// Address is empty, sessions are not revocable server-side.
type Redis struct {
	// Env: STORAGE_REDIS_ADDRESS
	Address string `env:"ADDRESS"`
	// Env: STORAGE_REDIS_PASSWORD
	Password string `env:"PASSWORD"`
	// Env: STORAGE_REDIS_DB
	DB int `env:"DB"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:4444").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Mail holds SMTP settings. When Host is empty, emails are written to the
// log instead of being sent.
type Mail struct {
	// Env: MAIL_SMTP_HOST
	Host string `env:"SMTP_HOST"`
	// Env: MAIL_SMTP_PORT
	Port int `env:"SMTP_PORT"`
	// Env: MAIL_SMTP_USERNAME
	Username string `env:"SMTP_USERNAME"`
	// Env: MAIL_SMTP_PASSWORD
	Password string `env:"SMTP_PASSWORD"`
	// From is the sender address of outgoing emails.
	// Env: MAIL_FROM
	From string `env:"FROM"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// MailQueueSize bounds the number of emails waiting for delivery.
	// Env: WORKERS_MAIL_QUEUE_SIZE
	MailQueueSize int `env:"MAIL_QUEUE_SIZE"`

	// MailWorkers is the number of goroutines delivering emails.
	// Env: WORKERS_MAIL_WORKERS
	MailWorkers int `env:"MAIL_WORKERS"`
}

// Defaults returns the configuration used for every field no other source
// sets.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:        "go-storefront",
			TokenDuration:      365 * 24 * time.Hour,
			ResetTokenDuration: time.Hour,
			FrontendURL:        "http://localhost:7777",
			LogLevel:           "debug",
		},
		Server: Server{
			HTTPAddress:    "localhost:4444",
			RequestTimeout: 30 * time.Second,
		},
		Mail: Mail{
			Port: 587,
			From: "storefront@localhost",
		},
		Workers: Workers{
			MailQueueSize: 64,
			MailWorkers:   2,
		},
	}
}

// GetStructuredConfig loads, merges, and validates the server configuration
// from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Defaults
//  2. Environment variables
//  3. Command-line flags
//  4. JSON file (path resolved from sources 2 and 3)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		build()
}
