package taskstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teamplan/alloc/internal/domain/catalog"
	"github.com/teamplan/alloc/internal/domain/model"
)

const (
	maxTitleLen          = 100
	defaultHours         = 8
	defaultDeadlineAfter = 7 * 24 * time.Hour
	statusAllocated      = "allocated"
)

// NewTask builds the persistence record for one assigned subtask.
func NewTask(teamKey string, task model.TaskAssignment, now time.Time) PersistedTask {
	hours := task.EstimatedHours
	if hours <= 0 {
		hours = defaultHours
	}
	allocatedTo := ""
	if task.AssignedTo != nil {
		allocatedTo = task.AssignedTo.ID
	}
	return PersistedTask{
		ID:             uuid.NewString(),
		Title:          truncate(task.Title, maxTitleLen),
		Description:    task.Description,
		RoleRequired:   roleRequired(teamKey, task.RequiredSkills),
		Priority:       string(catalog.PriorityForHours(hours)),
		Deadline:       now.Add(defaultDeadlineAfter),
		EstimatedHours: hours,
		Status:         statusAllocated,
		AllocatedTo:    allocatedTo,
		Sprint:         sprintLabel(now),
		CreatedAt:      now,
	}
}

// roleRequired maps the owning team to the role a task needs. Tech tasks are
// split into backend, devops and frontend by skill keywords.
func roleRequired(teamKey string, skills []string) string {
	switch teamKey {
	case catalog.TeamTech:
		return techRole(skills)
	case catalog.TeamMarketing:
		return "marketing"
	case catalog.TeamEditing:
		return "editing"
	default:
		return "general"
	}
}

func techRole(skills []string) string {
	joined := strings.ToLower(strings.Join(skills, " "))
	switch {
	case strings.Contains(joined, "devops"),
		strings.Contains(joined, "terraform"),
		strings.Contains(joined, "ci/cd"),
		strings.Contains(joined, "infra"):
		return "devops"
	case strings.Contains(joined, "frontend"),
		strings.Contains(joined, "react"),
		strings.Contains(joined, "css"),
		strings.Contains(joined, "ui"):
		return "frontend"
	default:
		return "backend"
	}
}

// sprintLabel names the sprint after the ISO week the task was allocated in.
func sprintLabel(now time.Time) string {
	year, week := now.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
