package models

// Email is an outgoing HTML message.
type Email struct {
	// From overrides the configured sender when non-empty.
	From string
	// To lists the recipient addresses.
	To []string
	// Subject is the message subject line.
	Subject string
	// HTMLBody is the text/html body.
	HTMLBody string
}
