// Package ratelimit provides per-IP token-bucket rate limiting middleware for
// Gin HTTP servers, with automatic stale-entry cleanup. Guardian-facing
// endpoints get a tighter default profile than staff-facing ones.
package ratelimit
