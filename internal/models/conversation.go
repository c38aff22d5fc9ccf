package models

// Conversations groups chat rows by session id. It is derived at query
// time, never stored; the JSON shape is an object keyed by session id with
// the session's messages as the value.
type Conversations map[string][]Chat
