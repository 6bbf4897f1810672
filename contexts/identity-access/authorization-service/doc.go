// Package authorization owns request authentication and role-based access
// for the car parts marketplace.
//
// Layering:
// - domain: claims, users, access gate, admin-protection rules, errors
// - application: authenticate (validate then resolve) and admin user use cases
// - ports: token validator and user directory boundaries
// - adapters: jwt validator, HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Roles are read from the user directory on every request. Token role
//   claims are diagnostics only.
// - Other contexts receive the caller as contracts/identity/v1.Identity and
//   never import this module.
package authorization
