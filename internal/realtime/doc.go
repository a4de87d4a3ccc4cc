// Package realtime relays board activity between WebSocket clients.
//
// Clients authenticate with an access token, join board rooms after a
// membership check, and broadcast change notifications to the other
// members of rooms they have joined. The server does not persist or merge
// relayed messages; clients refetch or apply them as they see fit.
//
// All room state is owned by a single Hub goroutine. Connections talk to it
// through commands, and every write to a socket happens in that
// connection's write pump.
package realtime
