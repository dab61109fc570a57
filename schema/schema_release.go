package schema

import "time"

// SprintStatus represents the lifecycle state of a sprint.
type SprintStatus string

// All sprint statuses supported.
const (
	SprintOpen   SprintStatus = "open"
	SprintClosed SprintStatus = "closed"
)

// ReleaseRecord is a stored release: a bounded period of a project.
type ReleaseRecord struct {
	ID                 string    `json:"id" yaml:"id"`
	ProjectID          string    `json:"project_id" yaml:"project_id"`
	Name               string    `json:"name" yaml:"name"`
	StartDate          time.Time `json:"start_date" yaml:"start_date"`
	EndDate            time.Time `json:"end_date" yaml:"end_date"`
	InitialStoryPoints *float64  `json:"initial_story_points,omitempty" yaml:"initial_story_points"`
}

// SprintRecord is a stored sprint. EffectiveDate is the closing date and is nil until set.
type SprintRecord struct {
	ID            string       `json:"id" yaml:"id"`
	ProjectID     string       `json:"project_id" yaml:"project_id"`
	Name          string       `json:"name" yaml:"name"`
	Status        SprintStatus `json:"status" yaml:"status"`
	StartDate     time.Time    `json:"start_date" yaml:"start_date"`
	EffectiveDate *time.Time   `json:"effective_date,omitempty" yaml:"effective_date,omitempty"`
}

// StoryRecord is a stored story. An empty SprintID means the story sits in the product backlog.
type StoryRecord struct {
	ID        string     `json:"id" yaml:"id"`
	ProjectID string     `json:"project_id" yaml:"project_id"`
	SprintID  string     `json:"sprint_id,omitempty" yaml:"sprint_id,omitempty"`
	Subject   string     `json:"subject" yaml:"subject"`
	Points    float64    `json:"points" yaml:"points"`
	CreatedOn time.Time  `json:"created_on" yaml:"created_on"`
	ClosedOn  *time.Time `json:"closed_on,omitempty" yaml:"closed_on,omitempty"`
}

// IsClosed reports whether the story has been closed.
func (s StoryRecord) IsClosed() bool {
	return s.ClosedOn != nil
}

// ReleaseSummary is a release listed alongside its closed sprint count.
type ReleaseSummary struct {
	Release       ReleaseRecord `json:"release"`
	ClosedSprints int           `json:"closed_sprints"`
	Workdays      int           `json:"workdays"`
}

// ReleaseFixture is a release with its sprints and stories, as loaded from a fixture file.
type ReleaseFixture struct {
	Release ReleaseRecord  `json:"release" yaml:"release"`
	Sprints []SprintRecord `json:"sprints" yaml:"sprints"`
	Stories []StoryRecord  `json:"stories" yaml:"stories"`
}
