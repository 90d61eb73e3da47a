/*
Package session implements session management and persistence orchestration.

It keeps one live conversation per session ID inside a process and serializes
opening, closing and deleting them. An optional distributed lock prevents two
replicas sharing a store from seeding the same session at once.
*/
package session
