// Package model defines shared data types for the marketmade client.
//
// Conventions:
//   - Prices and volumes: float64, exactly as the authority sends them
//   - Timestamps: int64 milliseconds since Unix epoch (the wire format);
//     converted to time.Time only at the lifecycle boundary
//   - Order IDs and tick IDs: int64, issued monotonically by the authority
package model
