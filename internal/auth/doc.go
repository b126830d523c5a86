// Package auth provides authentication and authorisation for accountd.
//
// It implements a two-tier permission model with:
//   - Argon2id password hashing (OWASP 2025 recommendation)
//   - Stateless HS256 JWT session tokens binding only the account id
//   - A global admin flag that implies every permission unconditionally
//   - Per-user sets of named fine-grained authorisations
//
// Authorisation is a single containment test: admin accounts hold the
// universal permission set, regular accounts hold exactly the names they
// have been granted. There is no role hierarchy and no permission
// implies another.
//
// Session validity is purely cryptographic. Tokens are never stored
// server-side and cannot be revoked; all trust decisions go through
// TokenService so an expiry or revocation mechanism can be added later
// without touching the HTTP handlers.
package auth
