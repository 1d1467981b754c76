// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes the subcommand named by args[0] with the remaining
	// arguments as operands.
	Run(ctx context.Context, args []string) error
}

// TokenStore persists the session token between client invocations.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
}
