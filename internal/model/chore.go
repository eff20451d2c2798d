package model

import (
	"time"

	"github.com/dukerupert/choreboard/internal/recurrence"
)

// CategoryStatus is the kanban column an instance currently occupies.
type CategoryStatus string

const (
	CategoryToDo       CategoryStatus = "todo"
	CategoryInProgress CategoryStatus = "in_progress"
	CategoryCompleted  CategoryStatus = "completed"
)

// Valid reports whether s is a known kanban category.
func (s CategoryStatus) Valid() bool {
	switch s {
	case CategoryToDo, CategoryInProgress, CategoryCompleted:
		return true
	}
	return false
}

// SubTask is a checklist item template on a definition. Completion state
// lives on each instance, not here.
type SubTask struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ChoreDefinition is the reusable chore template. Definitions are never
// deleted, only deactivated, so historical instances keep a valid back
// reference.
type ChoreDefinition struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	AssignedKidID *string         `json:"assigned_kid_id"`
	DueDate       time.Time       `json:"due_date"`
	RewardCents   *int64          `json:"reward_cents,omitempty"`
	Recurrence    recurrence.Rule `json:"recurrence"`
	RecurrenceEnd *time.Time      `json:"recurrence_end,omitempty"`
	EarlyStart    *time.Time      `json:"early_start,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	SubTasks      []SubTask       `json:"sub_tasks,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Comment is an append-only note on an instance.
type Comment struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActivityLogEntry records one mutation applied to an instance.
// Entries are append-only and never edited.
type ActivityLogEntry struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChoreInstance is one dated occurrence materialized from a definition.
type ChoreInstance struct {
	ID                    string             `json:"id"`
	DefinitionID          string             `json:"chore_definition_id"`
	Date                  time.Time          `json:"date"`
	Complete              bool               `json:"complete"`
	Category              CategoryStatus     `json:"category"`
	SubTaskDone           map[string]bool    `json:"sub_task_done,omitempty"`
	OverriddenRewardCents *int64             `json:"overridden_reward_cents,omitempty"`
	DescriptionOverride   *string            `json:"description_override,omitempty"`
	Comments              []Comment          `json:"comments,omitempty"`
	Activity              []ActivityLogEntry `json:"activity,omitempty"`
	Skipped               bool               `json:"skipped,omitempty"`
}

// EffectiveRewardCents returns the instance override when present,
// otherwise the definition's reward amount. Nil means no reward.
func (i *ChoreInstance) EffectiveRewardCents(def *ChoreDefinition) *int64 {
	if i.OverriddenRewardCents != nil {
		return i.OverriddenRewardCents
	}
	if def == nil {
		return nil
	}
	return def.RewardCents
}

// InstanceID builds the deterministic id for a definition's occurrence
// on a given date. An instance keeps this id even when explicitly moved
// to a different date.
func InstanceID(definitionID string, date time.Time) string {
	return definitionID + "_" + date.UTC().Format("2006-01-02")
}

// DateOnly truncates t to midnight UTC. Instance dates and range bounds
// are normalized through this before any comparison.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
