package transport

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fastygo/planner/domain"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

const (
	minNameLength        = 3
	maxNameLength        = 100
	maxDescriptionLength = 500
)

type ProjectRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	TeamID         string `json:"team_id"`
	StartDate      string `json:"start_date"`
	PlannedEndDate string `json:"planned_end_date"`
	Status         string `json:"status"`
}

// ProjectPayload is a ProjectRequest with its dates and status parsed.
type ProjectPayload struct {
	Name           string
	Description    string
	TeamID         string
	StartDate      time.Time
	PlannedEndDate time.Time
	Status         domain.ProjectStatus
}

// Parse checks the request shape and converts it. Business rules such as
// date ordering stay with the use case.
func (r ProjectRequest) Parse() (ProjectPayload, error) {
	var errs []error
	out := ProjectPayload{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		TeamID:      strings.TrimSpace(r.TeamID),
		Status:      domain.ProjectStatus(strings.ToUpper(r.Status)),
	}

	errs = append(errs, checkName("name", out.Name), checkDescription(out.Description))
	if out.TeamID == "" {
		errs = append(errs, errors.New("team_id is required"))
	}
	if !out.Status.Valid() {
		errs = append(errs, fmt.Errorf("status %q is not a project status", r.Status))
	}

	var err error
	if out.StartDate, err = parseDate("start_date", r.StartDate); err != nil {
		errs = append(errs, err)
	}
	if out.PlannedEndDate, err = parseDate("planned_end_date", r.PlannedEndDate); err != nil {
		errs = append(errs, err)
	}
	return out, invalid(errs)
}

type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ProjectID   string `json:"project_id"`
	AssigneeID  string `json:"assignee_id"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

// TaskPayload is a TaskRequest with its enums and due date parsed.
type TaskPayload struct {
	Title       string
	Description string
	ProjectID   string
	AssigneeID  string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	DueDate     *time.Time
}

func (r TaskRequest) Parse() (TaskPayload, error) {
	var errs []error
	out := TaskPayload{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		ProjectID:   strings.TrimSpace(r.ProjectID),
		AssigneeID:  strings.TrimSpace(r.AssigneeID),
		Status:      domain.TaskStatus(strings.ToUpper(r.Status)),
		Priority:    domain.TaskPriority(strings.ToUpper(r.Priority)),
	}

	errs = append(errs, checkName("title", out.Title), checkDescription(out.Description))
	if out.ProjectID == "" {
		errs = append(errs, errors.New("project_id is required"))
	}
	if !out.Status.Valid() {
		errs = append(errs, fmt.Errorf("status %q is not a task status", r.Status))
	}
	if !out.Priority.Valid() {
		errs = append(errs, fmt.Errorf("priority %q is not a task priority", r.Priority))
	}
	if r.DueDate != "" {
		due, err := parseDate("due_date", r.DueDate)
		if err != nil {
			errs = append(errs, err)
		} else {
			out.DueDate = &due
		}
	}
	return out, invalid(errs)
}

type StatusRequest struct {
	Status string `json:"status"`
}

func (r StatusRequest) Parse() (domain.TaskStatus, error) {
	status := domain.TaskStatus(strings.ToUpper(r.Status))
	if !status.Valid() {
		return "", domain.Validation(fmt.Sprintf("status %q is not a task status", r.Status))
	}
	return status, nil
}

func checkName(field, value string) error {
	n := utf8.RuneCountInString(value)
	if n < minNameLength || n > maxNameLength {
		return fmt.Errorf("%s must be between %d and %d characters", field, minNameLength, maxNameLength)
	}
	return nil
}

func checkDescription(value string) error {
	if utf8.RuneCountInString(value) > maxDescriptionLength {
		return fmt.Errorf("description must not exceed %d characters", maxDescriptionLength)
	}
	return nil
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a date in YYYY-MM-DD format", field)
	}
	return t, nil
}

func invalid(errs []error) error {
	var messages []string
	for _, err := range errs {
		if err != nil {
			messages = append(messages, err.Error())
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return domain.WrapError(domain.ErrCodeInvalid, "invalid payload", errors.New(strings.Join(messages, "; ")))
}
