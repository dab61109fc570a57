package iocache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
	"gopkg.in/yaml.v3"
)

// MaxReleaseNameLength is the longest release name accepted.
const MaxReleaseNameLength = 64

// ErrInvalidFixture wraps every validation failure of a release fixture.
var ErrInvalidFixture = errors.New("invalid release fixture")

// ParseFixture decodes a YAML release fixture. Unknown fields are rejected.
func ParseFixture(r io.Reader) (schema.ReleaseFixture, error) {
	var fixture schema.ReleaseFixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fixture); err != nil {
		if errors.Is(err, io.EOF) {
			return fixture, fmt.Errorf("%w: empty document", ErrInvalidFixture)
		}
		return fixture, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return fixture, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFixture, fmt.Sprintf(format, args...))
}

// newID returns a time-ordered id for records that arrive without one.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ValidateRelease checks the fields every stored release must carry.
func ValidateRelease(rel schema.ReleaseRecord) error {
	if strings.TrimSpace(rel.ProjectID) == "" {
		return invalid("release project_id is required")
	}
	if strings.TrimSpace(rel.Name) == "" {
		return invalid("release name is required")
	}
	if n := utf8.RuneCountInString(rel.Name); n > MaxReleaseNameLength {
		return invalid("release name is %d characters, maximum is %d", n, MaxReleaseNameLength)
	}
	if rel.StartDate.IsZero() || rel.EndDate.IsZero() {
		return invalid("release start_date and end_date are required")
	}
	if !rel.StartDate.Before(rel.EndDate) {
		return invalid("release start_date %s must be before end_date %s",
			rel.StartDate.Format(contract.DateFormat), rel.EndDate.Format(contract.DateFormat))
	}
	if rel.InitialStoryPoints == nil {
		return invalid("release initial_story_points is required")
	}
	return nil
}

// NormalizeFixture validates a fixture and fills in what may be left out:
// missing ids get a UUIDv7, missing project ids inherit the release's, and a
// sprint without status is closed when it has an effective date.
func NormalizeFixture(fixture *schema.ReleaseFixture) error {
	rel := &fixture.Release
	if rel.ID == "" {
		rel.ID = newID()
	}
	if err := ValidateRelease(*rel); err != nil {
		return err
	}

	sprintIDs := make(map[string]struct{}, len(fixture.Sprints))
	for i := range fixture.Sprints {
		sp := &fixture.Sprints[i]
		if sp.ID == "" {
			sp.ID = newID()
		}
		if _, dup := sprintIDs[sp.ID]; dup {
			return invalid("duplicate sprint id %s", sp.ID)
		}
		sprintIDs[sp.ID] = struct{}{}
		if sp.ProjectID == "" {
			sp.ProjectID = rel.ProjectID
		}
		if strings.TrimSpace(sp.Name) == "" {
			return invalid("sprint %s has no name", sp.ID)
		}
		if sp.StartDate.IsZero() {
			return invalid("sprint %s has no start_date", sp.ID)
		}
		if sp.Status == "" {
			sp.Status = schema.SprintOpen
			if sp.EffectiveDate != nil {
				sp.Status = schema.SprintClosed
			}
		}
		if sp.Status != schema.SprintOpen && sp.Status != schema.SprintClosed {
			return invalid("sprint %s has unknown status %q", sp.ID, sp.Status)
		}
		if sp.EffectiveDate != nil && sp.EffectiveDate.Before(sp.StartDate) {
			return invalid("sprint %s closes before it starts", sp.ID)
		}
	}

	storyIDs := make(map[string]struct{}, len(fixture.Stories))
	for i := range fixture.Stories {
		st := &fixture.Stories[i]
		if st.ID == "" {
			st.ID = newID()
		}
		if _, dup := storyIDs[st.ID]; dup {
			return invalid("duplicate story id %s", st.ID)
		}
		storyIDs[st.ID] = struct{}{}
		if st.ProjectID == "" {
			st.ProjectID = rel.ProjectID
		}
		if strings.TrimSpace(st.Subject) == "" {
			return invalid("story %s has no subject", st.ID)
		}
		if st.Points < 0 {
			return invalid("story %s has negative points", st.ID)
		}
		if st.CreatedOn.IsZero() {
			return invalid("story %s has no created_on", st.ID)
		}
		if st.SprintID != "" {
			if _, ok := sprintIDs[st.SprintID]; !ok {
				return invalid("story %s refers to unknown sprint %s", st.ID, st.SprintID)
			}
		}
		if st.ClosedOn != nil && st.ClosedOn.Before(st.CreatedOn) {
			return invalid("story %s is closed before it was created", st.ID)
		}
	}
	return nil
}

// LoadFixtureFile reads, parses and normalizes a fixture file.
func LoadFixtureFile(path string) (schema.ReleaseFixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.ReleaseFixture{}, fmt.Errorf("failed to open fixture: %w", err)
	}
	defer func() { _ = f.Close() }()

	fixture, err := ParseFixture(f)
	if err != nil {
		return fixture, err
	}
	if err := NormalizeFixture(&fixture); err != nil {
		return fixture, err
	}
	return fixture, nil
}

// ImportFixtureFile loads a fixture file into the release store and returns what was stored.
func ImportFixtureFile(ctx context.Context, store contract.ReleaseStore, path string) (schema.ReleaseFixture, error) {
	if store == nil {
		return schema.ReleaseFixture{}, errors.New("release data store is not initialized")
	}
	fixture, err := LoadFixtureFile(path)
	if err != nil {
		return fixture, err
	}
	if err := store.ImportFixture(ctx, fixture); err != nil {
		return fixture, err
	}
	return fixture, nil
}
