// Package api holds the HTTP handlers of the task board: auth, boards and
// their members, lists, and health. Handlers decode and validate request
// shape, call the services, and map service errors to status codes with
// MapErrorToStatusCode. Successful responses use the {"message","data"}
// envelope from package shared.
package api
