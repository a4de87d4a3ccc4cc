// Package redisbridge fans board room operations out across server
// instances over Redis Pub/Sub.
//
// Each instance publishes the operations its own clients trigger on
// <prefix>:board:<boardID> and applies operations published by other
// instances to its local hub. Delivery is best effort: Pub/Sub keeps no
// backlog and messages published while an instance is disconnected are lost.
package redisbridge
