// Package postgres implements the store interfaces on PostgreSQL through the
// pgx stdlib driver: the participant registry (task_participants) and the
// notification store (notifications). Schema migrations are embedded and
// applied with goose.
package postgres
