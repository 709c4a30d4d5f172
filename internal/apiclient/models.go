package apiclient

import (
	"time"

	"github.com/google/uuid"
)

type StateType string

const (
	StateScheduled StateType = "SCHEDULED"
	StatePending   StateType = "PENDING"
	StateRunning   StateType = "RUNNING"
	StateCompleted StateType = "COMPLETED"
	StateFailed    StateType = "FAILED"
	StateCancelled StateType = "CANCELLED"
)

var ValidStateTypes = map[StateType]bool{
	StateScheduled: true,
	StatePending:   true,
	StateRunning:   true,
	StateCompleted: true,
	StateFailed:    true,
	StateCancelled: true,
}

type Flow struct {
	ID      uuid.UUID `json:"id"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	Name    string    `json:"name"`
	Tags    []string  `json:"tags"`
}

type State struct {
	ID        uuid.UUID `json:"id"`
	Type      StateType `json:"type"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

type FlowRun struct {
	ID                uuid.UUID      `json:"id"`
	Created           time.Time      `json:"created"`
	Updated           time.Time      `json:"updated"`
	Name              string         `json:"name"`
	FlowID            uuid.UUID      `json:"flow_id"`
	DeploymentID      *uuid.UUID     `json:"deployment_id"`
	Parameters        map[string]any `json:"parameters"`
	Tags              []string       `json:"tags"`
	State             *State         `json:"state"`
	ExpectedStartTime *time.Time     `json:"expected_start_time"`
	StartTime         *time.Time     `json:"start_time"`
	EndTime           *time.Time     `json:"end_time"`
	TotalRunTime      float64        `json:"total_run_time"` // seconds
}

type Deployment struct {
	ID               uuid.UUID `json:"id"`
	Created          time.Time `json:"created"`
	Updated          time.Time `json:"updated"`
	Name             string    `json:"name"`
	FlowID           uuid.UUID `json:"flow_id"`
	IsScheduleActive bool      `json:"is_schedule_active"`
	Tags             []string  `json:"tags"`
}
