// Package api implements the main HTTP API server (Gin-based) for the
// smart-classroom backend, providing controller registration, request
// logging, panic recovery, health and metrics endpoints.
package api
