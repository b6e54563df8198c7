package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/campusbeat/campusbeat/internal/model"
	"github.com/campusbeat/campusbeat/internal/store"
)

//go:embed schema.sql
var Schema string

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Profiles() store.Profiles             { return &profiles{db: s.db} }
func (s *pgStore) Entities() store.Entities             { return &entities{db: s.db} }
func (s *pgStore) Follows() store.Follows               { return &follows{db: s.db} }
func (s *pgStore) Events() store.Events                 { return &events{db: s.db} }
func (s *pgStore) Commitments() store.Commitments       { return &commitments{db: s.db} }
func (s *pgStore) PersonalEvents() store.PersonalEvents { return &personalEvents{db: s.db} }
func (s *pgStore) Dismissals() store.Dismissals         { return &dismissals{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SeedEntity inserts reference entity data. Entities are provisioned outside
// this service; this hook exists for the storetest suite and dev fixtures.
func (s *pgStore) SeedEntity(ctx context.Context, e *model.Entity) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO entities (entity_id, entity_type, name, handle, avatar_url, cover_url, verified)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (entity_id) DO NOTHING
    `, e.EntityID, e.Type, e.Name, e.Handle, e.AvatarURL, e.CoverURL, e.Verified)
	return err
}

// Bootstrap performs a connectivity check to ensure Postgres is reachable.
// This is a fast ping-only check since compose migrations handle schema setup.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil // No DSN configured, skip bootstrap
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.PingContext(ctx)
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// --- Profiles ---

type profiles struct{ db *sql.DB }

func (p *profiles) Get(ctx context.Context, userID string) (*model.Profile, error) {
	var out model.Profile
	row := p.db.QueryRowContext(ctx, `
        SELECT user_id, display_name, handle, avatar_url, last_inbox_seen_at, creation_time
        FROM profiles WHERE user_id=$1
    `, userID)
	if err := row.Scan(&out.UserID, &out.DisplayName, &out.Handle, &out.AvatarURL, &out.LastInboxSeenAt, &out.CreationTime); err != nil {
		return nil, mapNoRows(err)
	}
	return &out, nil
}

// Update upserts: users get a profile row the first time they edit anything.
// Nil fields leave the stored value untouched.
func (p *profiles) Update(ctx context.Context, m *model.Profile) (*model.Profile, error) {
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO profiles (user_id, display_name, handle, avatar_url)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (user_id) DO UPDATE SET
            display_name = COALESCE(EXCLUDED.display_name, profiles.display_name),
            handle       = COALESCE(EXCLUDED.handle, profiles.handle),
            avatar_url   = COALESCE(EXCLUDED.avatar_url, profiles.avatar_url)
    `, m.UserID, m.DisplayName, m.Handle, m.AvatarURL)
	if err != nil {
		return nil, err
	}
	return p.Get(ctx, m.UserID)
}

func (p *profiles) MarkInboxSeen(ctx context.Context, userID string, at time.Time) error {
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO profiles (user_id, last_inbox_seen_at) VALUES ($1,$2)
        ON CONFLICT (user_id) DO UPDATE SET last_inbox_seen_at=EXCLUDED.last_inbox_seen_at
    `, userID, at)
	return err
}

// --- Entities ---

type entities struct{ db *sql.DB }

const entityCols = `entity_id, entity_type, name, handle, avatar_url, cover_url, verified, creation_time`

func scanEntity(row interface{ Scan(...interface{}) error }) (*model.Entity, error) {
	var e model.Entity
	if err := row.Scan(&e.EntityID, &e.Type, &e.Name, &e.Handle, &e.AvatarURL, &e.CoverURL, &e.Verified, &e.CreationTime); err != nil {
		return nil, err
	}
	return &e, nil
}

func (en *entities) List(ctx context.Context) ([]*model.Entity, error) {
	rows, err := en.db.QueryContext(ctx, `
        SELECT `+entityCols+` FROM entities ORDER BY verified DESC, name ASC
    `)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (en *entities) GetByID(ctx context.Context, entityID string) (*model.Entity, error) {
	row := en.db.QueryRowContext(ctx, `
        SELECT `+entityCols+` FROM entities WHERE entity_id=$1
    `, entityID)
	e, err := scanEntity(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return e, nil
}

// --- Follows ---

type follows struct{ db *sql.DB }

func (f *follows) Follow(ctx context.Context, followerID, entityID string) error {
	_, err := f.db.ExecContext(ctx, `
        INSERT INTO follows (follower_id, entity_id) VALUES ($1,$2)
        ON CONFLICT (follower_id, entity_id) DO NOTHING
    `, followerID, entityID)
	return err
}

func (f *follows) Unfollow(ctx context.Context, followerID, entityID string) error {
	_, err := f.db.ExecContext(ctx, `DELETE FROM follows WHERE follower_id=$1 AND entity_id=$2`, followerID, entityID)
	return err
}

func (f *follows) IsFollowing(ctx context.Context, followerID, entityID string) (bool, error) {
	var one int
	err := f.db.QueryRowContext(ctx, `SELECT 1 FROM follows WHERE follower_id=$1 AND entity_id=$2`, followerID, entityID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (f *follows) ListEntities(ctx context.Context, followerID string) ([]*model.Entity, error) {
	rows, err := f.db.QueryContext(ctx, `
        SELECT e.entity_id, e.entity_type, e.name, e.handle, e.avatar_url, e.cover_url, e.verified, e.creation_time
        FROM follows f JOIN entities e ON e.entity_id = f.entity_id
        WHERE f.follower_id=$1 ORDER BY e.name ASC
    `, followerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (f *follows) ListEntityIDs(ctx context.Context, followerID string) ([]string, error) {
	rows, err := f.db.QueryContext(ctx, `SELECT entity_id FROM follows WHERE follower_id=$1`, followerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (f *follows) CountByFollower(ctx context.Context, followerID string) (int, error) {
	var n int
	err := f.db.QueryRowContext(ctx, `SELECT count(*) FROM follows WHERE follower_id=$1`, followerID).Scan(&n)
	return n, err
}

// --- Events ---

type events struct{ db *sql.DB }

const eventJoinCols = `
        e.event_id, e.entity_id, e.title, e.description, e.cover_image_url,
        e.start_at, e.end_at, e.location_name, e.visibility, e.status,
        e.created_by, e.creation_time, e.update_time,
        en.entity_id, en.name, en.avatar_url, en.verified`

func scanEventWithEntity(row interface{ Scan(...interface{}) error }) (*model.EventWithEntity, error) {
	var ev model.EventWithEntity
	if err := row.Scan(
		&ev.EventID, &ev.EntityID, &ev.Title, &ev.Description, &ev.CoverImageURL,
		&ev.StartAt, &ev.EndAt, &ev.LocationName, &ev.Visibility, &ev.Status,
		&ev.CreatedBy, &ev.CreationTime, &ev.UpdateTime,
		&ev.Entity.EntityID, &ev.Entity.Name, &ev.Entity.AvatarURL, &ev.Entity.Verified,
	); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (ev *events) Create(ctx context.Context, m *model.Event) (*model.Event, error) {
	id := m.EventID
	if id == "" {
		id = uuid.New().String()
	}
	var created, updated time.Time
	row := ev.db.QueryRowContext(ctx, `
        INSERT INTO events (event_id, entity_id, title, description, cover_image_url,
                            start_at, end_at, location_name, visibility, status, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING creation_time, update_time
    `, id, m.EntityID, m.Title, m.Description, m.CoverImageURL,
		m.StartAt, m.EndAt, m.LocationName, m.Visibility, m.Status, m.CreatedBy)
	if err := row.Scan(&created, &updated); err != nil {
		return nil, err
	}
	out := *m
	out.EventID = id
	out.CreationTime = created
	out.UpdateTime = updated
	return &out, nil
}

func (ev *events) GetByID(ctx context.Context, eventID string) (*model.EventWithEntity, error) {
	row := ev.db.QueryRowContext(ctx, `
        SELECT `+eventJoinCols+`
        FROM events e JOIN entities en ON en.entity_id = e.entity_id
        WHERE e.event_id=$1
    `, eventID)
	out, err := scanEventWithEntity(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return out, nil
}

func (ev *events) GetInterval(ctx context.Context, eventID string) (time.Time, time.Time, error) {
	var start, end time.Time
	err := ev.db.QueryRowContext(ctx, `SELECT start_at, end_at FROM events WHERE event_id=$1`, eventID).Scan(&start, &end)
	if err != nil {
		return time.Time{}, time.Time{}, mapNoRows(err)
	}
	return start, end, nil
}

func (ev *events) queryJoined(ctx context.Context, query string, args ...interface{}) ([]*model.EventWithEntity, error) {
	rows, err := ev.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.EventWithEntity
	for rows.Next() {
		e, err := scanEventWithEntity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (ev *events) ListFeed(ctx context.Context, followedEntityIDs []string, now time.Time, limit int) ([]*model.EventWithEntity, error) {
	if followedEntityIDs == nil {
		followedEntityIDs = []string{}
	}
	return ev.queryJoined(ctx, `
        SELECT `+eventJoinCols+`
        FROM events e JOIN entities en ON en.entity_id = e.entity_id
        WHERE e.status='published' AND e.start_at >= $1
          AND (e.visibility='public' OR (e.visibility='followers' AND e.entity_id = ANY($2)))
        ORDER BY e.start_at ASC LIMIT $3
    `, now, followedEntityIDs, limit)
}

func (ev *events) ListByEntity(ctx context.Context, entityID string, now time.Time, limit int) ([]*model.EventWithEntity, error) {
	return ev.queryJoined(ctx, `
        SELECT `+eventJoinCols+`
        FROM events e JOIN entities en ON en.entity_id = e.entity_id
        WHERE e.entity_id=$1 AND e.status='published' AND e.start_at >= $2
        ORDER BY e.start_at ASC LIMIT $3
    `, entityID, now, limit)
}

func (ev *events) ListUpdatedSince(ctx context.Context, entityIDs []string, since, now time.Time, limit int) ([]*model.EventWithEntity, error) {
	if entityIDs == nil {
		entityIDs = []string{}
	}
	return ev.queryJoined(ctx, `
        SELECT `+eventJoinCols+`
        FROM events e JOIN entities en ON en.entity_id = e.entity_id
        WHERE e.status='published' AND e.start_at >= $1 AND e.update_time >= $2
          AND e.entity_id = ANY($3)
        ORDER BY e.update_time DESC LIMIT $4
    `, now, since, entityIDs, limit)
}

func (ev *events) CountAttendees(ctx context.Context, eventID string) (int, error) {
	var n int
	err := ev.db.QueryRowContext(ctx, `
        SELECT count(*) FROM user_calendar_items WHERE event_id=$1 AND status='going'
    `, eventID).Scan(&n)
	return n, err
}

func (ev *events) CountAttendeesFor(ctx context.Context, eventIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	rows, err := ev.db.QueryContext(ctx, `
        SELECT event_id, count(*) FROM user_calendar_items
        WHERE event_id = ANY($1) AND status='going'
        GROUP BY event_id
    `, eventIDs)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

func (ev *events) CountCreatedBy(ctx context.Context, userID string) (int, error) {
	var n int
	err := ev.db.QueryRowContext(ctx, `
        SELECT count(*) FROM events WHERE created_by=$1 AND status='published'
    `, userID).Scan(&n)
	return n, err
}

// --- Commitments ---

type commitments struct{ db *sql.DB }

func (c *commitments) Add(ctx context.Context, userID, eventID string) error {
	// Upsert-to-going: a previously removed row flips back instead of duplicating.
	_, err := c.db.ExecContext(ctx, `
        INSERT INTO user_calendar_items (user_id, event_id, status)
        VALUES ($1,$2,'going')
        ON CONFLICT (user_id, event_id) DO UPDATE SET status='going'
    `, userID, eventID)
	return err
}

func (c *commitments) Remove(ctx context.Context, userID, eventID string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM user_calendar_items WHERE user_id=$1 AND event_id=$2`, userID, eventID)
	return err
}

func (c *commitments) IsGoing(ctx context.Context, userID, eventID string) (bool, error) {
	var one int
	err := c.db.QueryRowContext(ctx, `
        SELECT 1 FROM user_calendar_items WHERE user_id=$1 AND event_id=$2 AND status='going'
    `, userID, eventID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

const commitmentJoinCols = `
        c.user_id, c.event_id, c.status, c.added_at,` + eventJoinCols

func scanSharedItem(row interface{ Scan(...interface{}) error }) (*model.SharedItem, error) {
	var it model.SharedItem
	if err := row.Scan(
		&it.Commitment.UserID, &it.Commitment.EventID, &it.Commitment.Status, &it.Commitment.AddedAt,
		&it.Event.EventID, &it.Event.EntityID, &it.Event.Title, &it.Event.Description, &it.Event.CoverImageURL,
		&it.Event.StartAt, &it.Event.EndAt, &it.Event.LocationName, &it.Event.Visibility, &it.Event.Status,
		&it.Event.CreatedBy, &it.Event.CreationTime, &it.Event.UpdateTime,
		&it.Event.Entity.EntityID, &it.Event.Entity.Name, &it.Event.Entity.AvatarURL, &it.Event.Entity.Verified,
	); err != nil {
		return nil, err
	}
	return &it, nil
}

// commitmentJoin uses an inner join, so commitments pointing at a deleted
// event drop out of every view here.
const commitmentJoin = `
        FROM user_calendar_items c
        JOIN events e ON e.event_id = c.event_id
        JOIN entities en ON en.entity_id = e.entity_id`

func (c *commitments) querySharedItems(ctx context.Context, query string, args ...interface{}) ([]*model.SharedItem, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.SharedItem
	for rows.Next() {
		it, err := scanSharedItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (c *commitments) queryFirst(ctx context.Context, query string, args ...interface{}) (*model.SharedItem, error) {
	row := c.db.QueryRowContext(ctx, query, args...)
	it, err := scanSharedItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (c *commitments) ListGoingBetween(ctx context.Context, userID string, from, to time.Time) ([]*model.SharedItem, error) {
	return c.querySharedItems(ctx, `
        SELECT `+commitmentJoinCols+commitmentJoin+`
        WHERE c.user_id=$1 AND c.status='going' AND e.start_at >= $2 AND e.start_at <= $3
        ORDER BY e.start_at ASC
    `, userID, from, to)
}

func (c *commitments) CurrentAt(ctx context.Context, userID string, now time.Time) (*model.SharedItem, error) {
	return c.queryFirst(ctx, `
        SELECT `+commitmentJoinCols+commitmentJoin+`
        WHERE c.user_id=$1 AND c.status='going' AND e.start_at <= $2 AND e.end_at >= $2
        ORDER BY e.start_at ASC LIMIT 1
    `, userID, now)
}

func (c *commitments) NextAfter(ctx context.Context, userID string, now time.Time) (*model.SharedItem, error) {
	return c.queryFirst(ctx, `
        SELECT `+commitmentJoinCols+commitmentJoin+`
        WHERE c.user_id=$1 AND c.status='going' AND e.start_at > $2
        ORDER BY e.start_at ASC LIMIT 1
    `, userID, now)
}

func (c *commitments) ListPastEnding(ctx context.Context, userID string, now time.Time, limit int) ([]*model.SharedItem, error) {
	return c.querySharedItems(ctx, `
        SELECT `+commitmentJoinCols+commitmentJoin+`
        WHERE c.user_id=$1 AND c.status='going' AND e.end_at < $2
        ORDER BY e.end_at DESC LIMIT $3
    `, userID, now, limit)
}

func (c *commitments) ListGoingIntervals(ctx context.Context, userID, excludeEventID string) ([]model.ConflictingEvent, error) {
	rows, err := c.db.QueryContext(ctx, `
        SELECT e.event_id, e.title, e.start_at, e.end_at
        FROM user_calendar_items c JOIN events e ON e.event_id = c.event_id
        WHERE c.user_id=$1 AND c.status='going' AND c.event_id <> $2
        ORDER BY e.start_at ASC
    `, userID, excludeEventID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.ConflictingEvent
	for rows.Next() {
		var ce model.ConflictingEvent
		if err := rows.Scan(&ce.EventID, &ce.Title, &ce.StartAt, &ce.EndAt); err != nil {
			return nil, err
		}
		out = append(out, ce)
	}
	return out, rows.Err()
}

func (c *commitments) ListGoingEventIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
        SELECT event_id FROM user_calendar_items WHERE user_id=$1 AND status='going'
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (c *commitments) CountPast(ctx context.Context, userID string, now time.Time) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `
        SELECT count(*) FROM user_calendar_items c JOIN events e ON e.event_id = c.event_id
        WHERE c.user_id=$1 AND c.status='going' AND e.end_at < $2
    `, userID, now).Scan(&n)
	return n, err
}

// --- Personal events ---

type personalEvents struct{ db *sql.DB }

const personalCols = `personal_event_id, user_id, title, start_at, end_at, location_name, notes, color, creation_time, update_time`

func scanPersonal(row interface{ Scan(...interface{}) error }) (*model.PersonalEvent, error) {
	var e model.PersonalEvent
	if err := row.Scan(&e.PersonalEventID, &e.UserID, &e.Title, &e.StartAt, &e.EndAt,
		&e.LocationName, &e.Notes, &e.Color, &e.CreationTime, &e.UpdateTime); err != nil {
		return nil, err
	}
	return &e, nil
}

func (p *personalEvents) Create(ctx context.Context, m *model.PersonalEvent) (*model.PersonalEvent, error) {
	id := m.PersonalEventID
	if id == "" {
		id = uuid.New().String()
	}
	var created, updated time.Time
	row := p.db.QueryRowContext(ctx, `
        INSERT INTO personal_events (personal_event_id, user_id, title, start_at, end_at, location_name, notes, color)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING creation_time, update_time
    `, id, m.UserID, m.Title, m.StartAt, m.EndAt, m.LocationName, m.Notes, m.Color)
	if err := row.Scan(&created, &updated); err != nil {
		return nil, err
	}
	out := *m
	out.PersonalEventID = id
	out.CreationTime = created
	out.UpdateTime = updated
	return &out, nil
}

func (p *personalEvents) GetByID(ctx context.Context, userID, personalEventID string) (*model.PersonalEvent, error) {
	row := p.db.QueryRowContext(ctx, `
        SELECT `+personalCols+` FROM personal_events WHERE user_id=$1 AND personal_event_id=$2
    `, userID, personalEventID)
	e, err := scanPersonal(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return e, nil
}

func (p *personalEvents) Update(ctx context.Context, userID, personalEventID string, upd model.UpdatePersonalEventRequest) (*model.PersonalEvent, error) {
	res, err := p.db.ExecContext(ctx, `
        UPDATE personal_events SET
            title         = COALESCE($1, title),
            start_at      = COALESCE($2, start_at),
            end_at        = COALESCE($3, end_at),
            location_name = COALESCE($4, location_name),
            notes         = COALESCE($5, notes),
            color         = COALESCE($6, color),
            update_time   = now()
        WHERE user_id=$7 AND personal_event_id=$8
    `, upd.Title, upd.StartAt, upd.EndAt, upd.LocationName, upd.Notes, upd.Color, userID, personalEventID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return p.GetByID(ctx, userID, personalEventID)
}

func (p *personalEvents) Delete(ctx context.Context, userID, personalEventID string) error {
	res, err := p.db.ExecContext(ctx, `
        DELETE FROM personal_events WHERE user_id=$1 AND personal_event_id=$2
    `, userID, personalEventID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (p *personalEvents) queryMany(ctx context.Context, query string, args ...interface{}) ([]*model.PersonalEvent, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.PersonalEvent
	for rows.Next() {
		e, err := scanPersonal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *personalEvents) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*model.PersonalEvent, error) {
	return p.queryMany(ctx, `
        SELECT `+personalCols+` FROM personal_events
        WHERE user_id=$1 AND start_at >= $2 AND start_at <= $3
        ORDER BY start_at ASC
    `, userID, from, to)
}

func (p *personalEvents) CurrentAt(ctx context.Context, userID string, now time.Time) (*model.PersonalEvent, error) {
	row := p.db.QueryRowContext(ctx, `
        SELECT `+personalCols+` FROM personal_events
        WHERE user_id=$1 AND start_at <= $2 AND end_at >= $2
        ORDER BY start_at ASC LIMIT 1
    `, userID, now)
	e, err := scanPersonal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (p *personalEvents) NextAfter(ctx context.Context, userID string, now time.Time) (*model.PersonalEvent, error) {
	row := p.db.QueryRowContext(ctx, `
        SELECT `+personalCols+` FROM personal_events
        WHERE user_id=$1 AND start_at > $2
        ORDER BY start_at ASC LIMIT 1
    `, userID, now)
	e, err := scanPersonal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (p *personalEvents) ListPastEnding(ctx context.Context, userID string, now time.Time, limit int) ([]*model.PersonalEvent, error) {
	return p.queryMany(ctx, `
        SELECT `+personalCols+` FROM personal_events
        WHERE user_id=$1 AND end_at < $2
        ORDER BY end_at DESC LIMIT $3
    `, userID, now, limit)
}

func (p *personalEvents) ListAll(ctx context.Context, userID string) ([]*model.PersonalEvent, error) {
	return p.queryMany(ctx, `
        SELECT `+personalCols+` FROM personal_events WHERE user_id=$1 ORDER BY start_at ASC
    `, userID)
}

// --- Dismissals ---

type dismissals struct{ db *sql.DB }

func (d *dismissals) Dismiss(ctx context.Context, userID, eventID string) error {
	_, err := d.db.ExecContext(ctx, `
        INSERT INTO dismissed_updates (user_id, event_id) VALUES ($1,$2)
        ON CONFLICT (user_id, event_id) DO NOTHING
    `, userID, eventID)
	return err
}

func (d *dismissals) ListEventIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT event_id FROM dismissed_updates WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
