// Package middleware provides HTTP middleware for the grader web server:
// request IDs, structured request logging, panic recovery, rate limiting,
// timeouts and Prometheus metrics.
package middleware
