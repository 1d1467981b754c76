// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client of the storefront
// identity API.
//
// Each invocation runs one subcommand against the server. The session token
// survives between invocations in a token file.
package client
