// Package api provides the REST client for the market authority.
//
// The only REST surface is game creation; everything after that happens over
// the WebSocket (see the connection and session packages).
//
// Endpoint:
//   - POST /api/game/ — create a game, returns its id
package api
