// Package events defines the task lifecycle events consumed from the broker
// and the parser that turns raw queue messages into them.
//
// A TaskEvent is one of a closed set of variants:
//   - TaskCreated (task.created)
//   - TaskUpdated (task.updated)
//   - TaskCommentCreated (task.comment.created)
//
// Parse is the only way to build an event from the wire. Messages with an
// unknown type or missing fields never become events; Parse rejects them with
// an InvalidEventError.
package events
