// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mailer

//go:generate mockgen -source=interfaces.go -destination=../mock/mailer_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-storefront/models"
)

// Mailer delivers outgoing emails.
type Mailer interface {
	Send(ctx context.Context, email models.Email) error
}
