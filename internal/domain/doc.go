// Package domain contains the notification entities and the recipient-set
// rules shared by the dispatcher and the stores: who participates in a task,
// what a stored notification looks like, and how id lists are normalized.
package domain
