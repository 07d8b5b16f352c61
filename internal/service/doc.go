// Package service contains the business logic of the notification pipeline.
//
// The Dispatcher turns a parsed task event into notification rows: it keeps
// the participant registry current, computes the recipients of the event and
// writes one notification per recipient. The registry upsert and all inserts
// for an event commit in a single transaction, so an event is either fully
// recorded or not at all.
//
// NotificationService is the read side used by the HTTP API: listing unread
// notifications and marking them read.
//
// Services receive their stores through constructor injection and depend only
// on the interfaces in internal/store.
package service
