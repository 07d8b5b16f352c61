package service

import (
	"sort"
	"strings"

	"github.com/jungle/notifications-service/internal/domain"
)

// CommentPreviewLength is the number of characters of a comment kept in the
// notification body.
const CommentPreviewLength = 100

const (
	taskCreatedTitle  = "New task: "
	taskCreatedBody   = "A new task was created."
	taskUpdatedTitle  = "Task updated"
	taskUpdatedNoDiff = "Changes in task fields."
	commentTitle      = "New comment"
)

func createdTitle(taskTitle string) string {
	return taskCreatedTitle + taskTitle
}

// updatedBody lists the changed field names in sorted order.
func updatedBody(changed map[string]any) string {
	if len(changed) == 0 {
		return taskUpdatedNoDiff
	}
	names := make([]string, 0, len(changed))
	for name := range changed {
		names = append(names, name)
	}
	sort.Strings(names)
	return "Changes in " + strings.Join(names, ", ") + "."
}

func commentBody(content string) string {
	return domain.Truncate(content, CommentPreviewLength)
}
