// Package events carries board change notifications from the services that
// make the change to the components that react to it.
//
// Services emit a BoardEvent after a mutation has been committed. Handlers,
// such as the realtime relay, receive every event and pick the types they
// care about. Delivery is synchronous and in-process; nothing is persisted.
package events
