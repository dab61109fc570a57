package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
)

// Table names for release data.
const (
	releasesTable = "burndown_releases"
	sprintsTable  = "burndown_sprints"
	storiesTable  = "burndown_stories"
)

// releaseTables lists the release data tables in dependency order.
var releaseTables = []string{releasesTable, sprintsTable, storiesTable}

// ErrReleaseNotFound is returned when a release id is not in the store.
var ErrReleaseNotFound = errors.New("release not found")

// ReleaseStoreImpl implements the ReleaseStore interface on a SQL database.
type ReleaseStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ReleaseStore = &ReleaseStoreImpl{} // Compile-time check

// NewReleaseStore opens the release data store and migrates it to the latest schema.
func NewReleaseStore(backend schema.DatabaseBackend, connStr string) (contract.ReleaseStore, error) {
	if _, err := driverName(backend); err != nil {
		return nil, err
	}
	if _, _, _, err := migrateTo(backend, connStr, -1); err != nil {
		return nil, fmt.Errorf("failed to migrate release data: %w", err)
	}
	db, err := openDB(backend, connStr, GetDataDBFilePath())
	if err != nil {
		return nil, err
	}
	return &ReleaseStoreImpl{db: db, backend: backend}, nil
}

func (rs *ReleaseStoreImpl) q(query string) string {
	return rebind(rs.backend, query)
}

func (rs *ReleaseStoreImpl) table(name string) string {
	return quoteTableName(name, rs.backend)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(contract.DateFormat)
}

func formatDatePtr(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatDate(*t), Valid: true}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(contract.DateFormat, strings.TrimSpace(s))
}

func parseDatePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || strings.TrimSpace(s.String) == "" {
		return nil, nil
	}
	t, err := parseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const releaseColumns = "id, project_id, name, start_date, end_date, initial_story_points"

func scanRelease(row interface{ Scan(...any) error }) (schema.ReleaseRecord, error) {
	var (
		rec        schema.ReleaseRecord
		start, end string
		initial    sql.NullFloat64
	)
	if err := row.Scan(&rec.ID, &rec.ProjectID, &rec.Name, &start, &end, &initial); err != nil {
		return rec, err
	}
	var err error
	if rec.StartDate, err = parseDate(start); err != nil {
		return rec, fmt.Errorf("release %s start date: %w", rec.ID, err)
	}
	if rec.EndDate, err = parseDate(end); err != nil {
		return rec, fmt.Errorf("release %s end date: %w", rec.ID, err)
	}
	if initial.Valid {
		rec.InitialStoryPoints = &initial.Float64
	}
	return rec, nil
}

// ListReleases returns every release ordered by start date.
func (rs *ReleaseStoreImpl) ListReleases(ctx context.Context) ([]schema.ReleaseRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY start_date, id", releaseColumns, rs.table(releasesTable))
	rows, err := rs.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var releases []schema.ReleaseRecord
	for rows.Next() {
		rec, err := scanRelease(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan release: %w", err)
		}
		releases = append(releases, rec)
	}
	return releases, rows.Err()
}

// GetRelease returns one release by id.
func (rs *ReleaseStoreImpl) GetRelease(ctx context.Context, id string) (schema.ReleaseRecord, error) {
	query := rs.q(fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", releaseColumns, rs.table(releasesTable)))
	rec, err := scanRelease(rs.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return schema.ReleaseRecord{}, fmt.Errorf("%w: %s", ErrReleaseNotFound, id)
	}
	if err != nil {
		return schema.ReleaseRecord{}, fmt.Errorf("failed to get release %s: %w", id, err)
	}
	return rec, nil
}

const sprintColumns = "id, project_id, name, status, start_date, effective_date"

// ClosedSprints returns closed sprints of the release's project that started
// on or after the release start and closed on or before the release end.
func (rs *ReleaseStoreImpl) ClosedSprints(ctx context.Context, release schema.ReleaseRecord) ([]schema.SprintRecord, error) {
	query := rs.q(fmt.Sprintf(`SELECT %s FROM %s
		WHERE project_id = ? AND status = ? AND effective_date IS NOT NULL
			AND start_date >= ? AND effective_date <= ?
		ORDER BY start_date, id`, sprintColumns, rs.table(sprintsTable)))
	rows, err := rs.db.QueryContext(ctx, query,
		release.ProjectID, string(schema.SprintClosed), formatDate(release.StartDate), formatDate(release.EndDate))
	if err != nil {
		return nil, fmt.Errorf("failed to query closed sprints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sprints := []schema.SprintRecord{}
	for rows.Next() {
		var (
			rec       schema.SprintRecord
			status    string
			start     string
			effective sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.ProjectID, &rec.Name, &status, &start, &effective); err != nil {
			return nil, fmt.Errorf("failed to scan sprint: %w", err)
		}
		rec.Status = schema.SprintStatus(status)
		if rec.StartDate, err = parseDate(start); err != nil {
			return nil, fmt.Errorf("sprint %s start date: %w", rec.ID, err)
		}
		if rec.EffectiveDate, err = parseDatePtr(effective); err != nil {
			return nil, fmt.Errorf("sprint %s effective date: %w", rec.ID, err)
		}
		sprints = append(sprints, rec)
	}
	return sprints, rows.Err()
}

const storyColumns = "id, project_id, sprint_id, subject, points, created_on, closed_on"

func (rs *ReleaseStoreImpl) queryStories(ctx context.Context, query string, args ...any) ([]schema.StoryRecord, error) {
	rows, err := rs.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stories := []schema.StoryRecord{}
	for rows.Next() {
		var (
			rec      schema.StoryRecord
			sprintID sql.NullString
			created  string
			closed   sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.ProjectID, &sprintID, &rec.Subject, &rec.Points, &created, &closed); err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		rec.SprintID = sprintID.String
		if rec.CreatedOn, err = parseDate(created); err != nil {
			return nil, fmt.Errorf("story %s created date: %w", rec.ID, err)
		}
		if rec.ClosedOn, err = parseDatePtr(closed); err != nil {
			return nil, fmt.Errorf("story %s closed date: %w", rec.ID, err)
		}
		stories = append(stories, rec)
	}
	return stories, rows.Err()
}

// SprintStories returns the stories assigned to a sprint.
func (rs *ReleaseStoreImpl) SprintStories(ctx context.Context, sprintID string) ([]schema.StoryRecord, error) {
	query := rs.q(fmt.Sprintf("SELECT %s FROM %s WHERE sprint_id = ? ORDER BY created_on, id", storyColumns, rs.table(storiesTable)))
	return rs.queryStories(ctx, query, sprintID)
}

// OpenBacklog returns the stories of a project that have no sprint and are not closed.
func (rs *ReleaseStoreImpl) OpenBacklog(ctx context.Context, projectID string) ([]schema.StoryRecord, error) {
	query := rs.q(fmt.Sprintf(`SELECT %s FROM %s
		WHERE project_id = ? AND (sprint_id IS NULL OR sprint_id = '') AND closed_on IS NULL
		ORDER BY created_on, id`, storyColumns, rs.table(storiesTable)))
	return rs.queryStories(ctx, query, projectID)
}

// upsertQuery returns the insert-or-update statement for a release data table.
func (rs *ReleaseStoreImpl) upsertQuery(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	cols := strings.Join(columns, ", ")
	switch rs.backend {
	case schema.PostgreSQLBackend:
		updates := make([]string, 0, len(columns)-1)
		for _, c := range columns[1:] {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
		return rebind(rs.backend, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
			rs.table(table), cols, placeholders, columns[0], strings.Join(updates, ", ")))
	default: // SQLite and MySQL
		return fmt.Sprintf("REPLACE INTO %s (%s) VALUES (%s)", rs.table(table), cols, placeholders)
	}
}

// ImportFixture stores a release with its sprints and stories in one transaction.
func (rs *ReleaseStoreImpl) ImportFixture(ctx context.Context, fixture schema.ReleaseFixture) (err error) {
	tx, err := rs.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rel := fixture.Release
	var initial sql.NullFloat64
	if rel.InitialStoryPoints != nil {
		initial = sql.NullFloat64{Float64: *rel.InitialStoryPoints, Valid: true}
	}
	releaseQuery := rs.upsertQuery(releasesTable, strings.Split(releaseColumns, ", "))
	if _, err = tx.ExecContext(ctx, releaseQuery,
		rel.ID, rel.ProjectID, rel.Name, formatDate(rel.StartDate), formatDate(rel.EndDate), initial); err != nil {
		return fmt.Errorf("failed to store release %s: %w", rel.ID, err)
	}

	sprintQuery := rs.upsertQuery(sprintsTable, strings.Split(sprintColumns, ", "))
	for _, sp := range fixture.Sprints {
		if _, err = tx.ExecContext(ctx, sprintQuery,
			sp.ID, sp.ProjectID, sp.Name, string(sp.Status), formatDate(sp.StartDate), formatDatePtr(sp.EffectiveDate)); err != nil {
			return fmt.Errorf("failed to store sprint %s: %w", sp.ID, err)
		}
	}

	storyQuery := rs.upsertQuery(storiesTable, strings.Split(storyColumns, ", "))
	for _, st := range fixture.Stories {
		sprintID := sql.NullString{String: st.SprintID, Valid: st.SprintID != ""}
		if _, err = tx.ExecContext(ctx, storyQuery,
			st.ID, st.ProjectID, sprintID, st.Subject, st.Points, formatDate(st.CreatedOn), formatDatePtr(st.ClosedOn)); err != nil {
			return fmt.Errorf("failed to store story %s: %w", st.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// GetStatus returns status information about the release store.
func (rs *ReleaseStoreImpl) GetStatus() (schema.DataStatus, error) {
	status := schema.DataStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.db == nil {
		return status, nil
	}

	var version sql.NullInt64
	row := rs.db.QueryRow("SELECT MAX(version) FROM schema_migrations")
	if err := row.Scan(&version); err == nil && version.Valid {
		status.SchemaVersion = uint(version.Int64)
	}

	counts := map[string]*int{
		releasesTable: &status.TotalReleases,
		sprintsTable:  &status.TotalSprints,
		storiesTable:  &status.TotalStories,
	}
	for _, table := range releaseTables {
		var count int64
		row := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", rs.table(table)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
		*counts[table] = int(count)
	}

	if status.TotalReleases > 0 {
		var name, end string
		row := rs.db.QueryRow(fmt.Sprintf("SELECT name, end_date FROM %s ORDER BY end_date DESC, id DESC LIMIT 1", rs.table(releasesTable)))
		if err := row.Scan(&name, &end); err != nil {
			return status, fmt.Errorf("failed to get latest release: %w", err)
		}
		status.LatestRelease = name
		if t, err := parseDate(end); err == nil {
			status.LatestReleaseEnd = t
		}
	}

	return status, nil
}

// Close closes the underlying DB connection.
func (rs *ReleaseStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}
