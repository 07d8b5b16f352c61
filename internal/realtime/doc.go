// Package realtime pushes task events to connected clients over websockets.
//
// The Gateway authenticates each connection with an access token and records
// it in a Registry under the token subject. EmitToUsers sends one serialized
// frame to every live connection of each recipient. Delivery is best effort:
// nothing is buffered for users without a live connection, and a failed send
// on one connection never blocks the others.
package realtime
