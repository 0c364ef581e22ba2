// Package auth provides JWT bearer-token validation for FarmCore.
//
// Tokens are HS256-signed and carry a farm scope: every authenticated
// request acts on exactly one farm, taken from the token's "farm"
// claim, never from the request body. User management, password
// handling, and token issuance flows live in the platform's account
// service; this package only mints tokens for tests and local
// development and validates them at the API boundary.
package auth
