// Package api handles the notification read API: listing unread
// notifications and marking them read for the authenticated user. It adapts
// HTTP requests to the service layer and maps service errors to safe
// responses.
package api
