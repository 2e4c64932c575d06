package task

import "time"

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

type Task struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employeeId"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Remarks         string     `json:"remarks,omitempty"`
	StartTime       string     `json:"startTime"`
	EndTime         string     `json:"endTime"`
	TaskDate        time.Time  `json:"taskDate"`
	Organization    string     `json:"organization"`
	Priority        string     `json:"priority"`
	Completion      int        `json:"completion"`
	Status          string     `json:"status"`
	SubmissionTime  *time.Time `json:"submissionTime"`
	LastUpdatedTime time.Time  `json:"lastUpdatedTime"`
	LastUpdatedBy   string     `json:"lastUpdatedBy,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// Resolved for admin listings only.
	Employee  *PersonRef `json:"employee,omitempty"`
	UpdatedBy *PersonRef `json:"updatedBy,omitempty"`
}

type PersonRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EmployeeID string `json:"employeeId"`
}

type AssignInput struct {
	EmployeeID   string
	Title        string
	Description  string
	Remarks      string
	StartTime    string
	EndTime      string
	TaskDate     time.Time
	Organization string
	Priority     string
	Completion   int
}

// AssigneeInfo is the slice of an employee record task assignment needs.
type AssigneeInfo struct {
	ID         string
	EmployeeID string
	Name       string
	Email      string
}

// StatusLabel collapses the stored percentage into the display state. The
// stored value stays the exact integer.
func StatusLabel(completion int) string {
	switch {
	case completion <= 0:
		return StatusPending
	case completion >= 100:
		return StatusCompleted
	default:
		return StatusInProgress
	}
}
