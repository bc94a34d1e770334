package model

import (
	"fmt"
	"time"
)

// ProjectStatus is the closed set of project lifecycle states.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// ParseProjectStatus validates a raw status value against the closed enum.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch ProjectStatus(s) {
	case ProjectActive, ProjectCompleted, ProjectArchived:
		return ProjectStatus(s), nil
	}
	return "", fmt.Errorf("unrecognized project status %q", s)
}

// Project is a grouping container for related tasks. The owner is always
// a member; the server enforces this and the client relies on it.
type Project struct {
	// ID is the server-assigned unique identifier.
	ID string `json:"_id"`

	// Title is the human-readable project name.
	Title string `json:"title"`

	// Description is the optional longer project summary.
	Description string `json:"description,omitempty"`

	// Status is the project lifecycle state.
	Status ProjectStatus `json:"status"`

	// Owner is the user who created and administers the project.
	Owner User `json:"owner"`

	// Members are the users allowed to hold tasks in this project,
	// owner included.
	Members []User `json:"members"`

	// Deadline is the optional target completion date.
	Deadline *time.Time `json:"deadline,omitempty"`

	// CreatedAt is when the project was created on the server.
	CreatedAt time.Time `json:"createdAt"`
}

// ProjectPayload is the writable subset submitted on create and update.
type ProjectPayload struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status,omitempty"`
	Members     []string      `json:"members,omitempty"`
	Deadline    *time.Time    `json:"deadline,omitempty"`
}

// MemberByID returns the member with the given id, if present.
func (p Project) MemberByID(id string) (User, bool) {
	for _, m := range p.Members {
		if m.ID == id {
			return m, true
		}
	}
	return User{}, false
}
