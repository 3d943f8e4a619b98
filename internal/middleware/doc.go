// Package middleware provides HTTP middleware for the preview server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with bounded path labels
//   - Gzip compression of JSON responses
package middleware
