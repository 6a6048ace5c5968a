// Package server holds the HTTP server configuration.
//
// The Config struct defines the listen port, the API key required by the auth
// middleware and the upload size limit for invoice files. The start command reads
// it through core/config and passes it to fiber.
package server
