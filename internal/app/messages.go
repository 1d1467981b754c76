// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-level constants used by the
// storefront server handlers and the command-line client.
//
// All Msg* constants are human-readable acknowledgements written into HTTP
// response bodies. Keeping them in one place ensures consistent wording
// between the API and the client that prints them.
package app

const (
	// MsgSignedOut acknowledges a sign out.
	MsgSignedOut = "Goodbye!"

	// MsgResetRequested acknowledges a password reset request. It is sent
	// whether or not the reset email could be delivered.
	MsgResetRequested = "Thanks!"
)
