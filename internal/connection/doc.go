// Package connection owns the WebSocket link to the market authority.
//
// A Client:
//   - Dials the authority and keeps the connection alive with ping/pong
//   - Serialises outbound writes (the session's command surface goes
//     through Send)
//   - Delivers raw inbound messages on a buffered channel, each stamped
//     with its local receive time
//   - Surfaces stale connections and read errors on a separate channel
package connection
