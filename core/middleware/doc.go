// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - rayid: Generates a unique Request ID (RayID) for every incoming request,
//     injecting it into the context and response headers for tracing.
//   - auth: Validates the X-API-Key header against the configured key.
//
// The start command registers rayid first so rejected requests are traced too.
package middleware
