// Package http contains the HTTP handlers for the grader web server.
// Handlers translate between the JSON API contracts in pkg/contracts/api
// and the gradebook service layer, mapping service sentinel errors onto
// structured API error responses.
package http
