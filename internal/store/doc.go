// Package store defines the persistence contracts of the notification
// pipeline: the participant registry and the notification store. It also
// provides the transaction helper that lets the dispatcher commit one
// registry upsert and all notification inserts for an event as a unit.
package store
