// Package journal persists toggle events in sqlite so progress history
// survives beyond the checkbox states in the markdown file itself.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Entry is one recorded toggle.
type Entry struct {
	bun.BaseModel `bun:"table:journal,alias:j"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Document   string    `bun:"document,notnull"`
	Module     string    `bun:"module,notnull"`
	Item       string    `bun:"item,notnull"`
	Done       bool      `bun:"done,notnull"`
	RecordedAt time.Time `bun:"recorded_at,notnull"`
}

// Journal is an append-mostly event log backed by bun over sqlite.
type Journal struct {
	db *bun.DB
}

// Open connects to (or creates) the journal database at path and makes
// sure the schema exists. Use ":memory:" for throwaway journals.
func Open(ctx context.Context, path string) (*Journal, error) {
	sqldb, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.SetMaxOpenConns(1)

	j := &Journal{db: db}
	if err := j.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) init(ctx context.Context) error {
	_, err := j.db.NewCreateTable().
		Model((*Entry)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create journal table: %w", err)
	}
	return nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends one toggle event. RecordedAt defaults to now.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	if _, err := j.db.NewInsert().Model(&e).Exec(ctx); err != nil {
		return fmt.Errorf("record journal entry: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []Entry
	err := j.db.NewSelect().
		Model(&entries).
		Order("recorded_at DESC").
		Order("id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return entries, nil
}

// CompletedSince counts items marked done for a document since the given
// time. Re-toggles count once per completion, which is the intent: the
// journal measures activity, the file measures state.
func (j *Journal) CompletedSince(ctx context.Context, document string, since time.Time) (int, error) {
	n, err := j.db.NewSelect().
		Model((*Entry)(nil)).
		Where("document = ?", document).
		Where("done").
		Where("recorded_at >= ?", since).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count journal entries: %w", err)
	}
	return n, nil
}
