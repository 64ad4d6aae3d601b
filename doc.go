// Package content implements a blog style content API: users, articles
// and categories behind JWT bearer authentication with role and
// ownership based authorization.
//
// The package holds the domain core: token service, authenticator,
// authorization guard, repositories and resource services. Transport
// wiring lives in cmd/server; the bearer middleware in
// middleware/jwtware.
package content
