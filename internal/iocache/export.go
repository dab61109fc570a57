package iocache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
	"gopkg.in/yaml.v3"
)

// CollectFixture gathers the release together with the sprints and stories that
// feed its burndown: the closed sprints in its window, their stories, and the
// project's open backlog.
func CollectFixture(ctx context.Context, store contract.ReleaseStore, releaseID string) (schema.ReleaseFixture, error) {
	if store == nil {
		return schema.ReleaseFixture{}, errors.New("release data store is not initialized")
	}
	rel, err := store.GetRelease(ctx, releaseID)
	if err != nil {
		return schema.ReleaseFixture{}, err
	}
	fixture := schema.ReleaseFixture{Release: rel, Sprints: []schema.SprintRecord{}, Stories: []schema.StoryRecord{}}

	sprints, err := store.ClosedSprints(ctx, rel)
	if err != nil {
		return fixture, fmt.Errorf("failed to read sprints: %w", err)
	}
	fixture.Sprints = append(fixture.Sprints, sprints...)
	for _, sp := range sprints {
		stories, err := store.SprintStories(ctx, sp.ID)
		if err != nil {
			return fixture, fmt.Errorf("failed to read stories of sprint %s: %w", sp.ID, err)
		}
		fixture.Stories = append(fixture.Stories, stories...)
	}

	backlog, err := store.OpenBacklog(ctx, rel.ProjectID)
	if err != nil {
		return fixture, fmt.Errorf("failed to read open backlog: %w", err)
	}
	fixture.Stories = append(fixture.Stories, backlog...)
	return fixture, nil
}

// ExportFixture writes the release data behind one burndown as a YAML fixture
// that ImportFixtureFile can load back.
func ExportFixture(ctx context.Context, store contract.ReleaseStore, releaseID string, w io.Writer) error {
	fixture, err := CollectFixture(ctx, store, releaseID)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fixture); err != nil {
		return fmt.Errorf("failed to encode fixture: %w", err)
	}
	return enc.Close()
}
