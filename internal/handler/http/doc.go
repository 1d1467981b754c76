// Package http implements the JSON HTTP API of the storefront identity
// service.
//
// It exposes route wiring, request handlers, and middleware. Cross-cutting
// concerns such as session resolution, request tracing, access logging, and
// response compression are handled here before requests are delegated to the
// service layer.
package http
