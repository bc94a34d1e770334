package model

import (
	"fmt"
	"time"
)

// TaskStatus is the closed set of task workflow states.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
)

// TaskStatuses lists every valid status in workflow order.
var TaskStatuses = []TaskStatus{
	StatusTodo, StatusInProgress, StatusReview, StatusDone,
}

// ParseTaskStatus validates a raw status value against the closed enum.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("unrecognized task status %q", s)
}

// Priority is the closed set of task priorities.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every valid priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority validates a raw priority value against the closed enum.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", fmt.Errorf("unrecognized priority %q", s)
}

// ProjectRef is the embedded projection of a task's parent project as
// returned by the API. Only the fields the client renders are carried.
type ProjectRef struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

// Task is the client-side projection of a server-owned task record.
type Task struct {
	// ID is the server-assigned unique identifier.
	ID string `json:"_id"`

	// Title is the human-readable summary of the task.
	Title string `json:"title"`

	// Description is the optional full body text.
	Description string `json:"description,omitempty"`

	// Status is the workflow state (use Status* constants).
	Status TaskStatus `json:"status"`

	// Priority is the task priority (use Priority* constants).
	Priority Priority `json:"priority"`

	// Project is the required parent project reference.
	Project ProjectRef `json:"project"`

	// AssignedTo is the optional assignee; must be a member of Project.
	AssignedTo *User `json:"assignedTo,omitempty"`

	// DueDate is the optional target date.
	DueDate *time.Time `json:"dueDate,omitempty"`

	// CreatedBy is the user who created the task.
	CreatedBy User `json:"createdBy"`

	// CreatedAt is when the task was created on the server.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the task was last modified on the server.
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskPayload is the writable subset submitted on create and update.
// AssignedTo holds a user id; empty means unassigned.
type TaskPayload struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	Project     string     `json:"project"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}
