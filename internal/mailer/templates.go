package mailer

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-storefront/models"
)

// ResetPasswordSubject is the subject line of password reset emails.
const ResetPasswordSubject = "Your Password Reset Token"

// ResetPasswordLink returns <frontendURL>/reset?resetToken=<token>.
func ResetPasswordLink(frontendURL, resetToken string) string {
	return strings.TrimRight(frontendURL, "/") + "/reset?resetToken=" + url.QueryEscape(resetToken)
}

// NewResetPasswordEmail builds the email carrying the reset link for to.
func NewResetPasswordEmail(to, frontendURL, resetToken string, validFor time.Duration) models.Email {
	link := ResetPasswordLink(frontendURL, resetToken)

	return models.Email{
		To:      []string{to},
		Subject: ResetPasswordSubject,
		HTMLBody: fmt.Sprintf(`<div style="border: 1px solid black; padding: 20px; font-family: sans-serif; line-height: 2; font-size: 20px;">
	<h2>Hello There!</h2>
	<p>Your Password Reset Token is here!</p>
	<p><a href="%s">Click Here to Reset</a></p>
	<p>The link is valid for %s. If you did not request a reset, ignore this email.</p>
</div>`, link, validFor),
	}
}
