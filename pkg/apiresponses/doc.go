// Package apiresponses provides standardized HTTP API response helpers
// (error, not-found, conflict, etc.) shared between the api and pickup
// packages without import cycles.
package apiresponses
