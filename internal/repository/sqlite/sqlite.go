package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"forcemap/internal/domain"
	"forcemap/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.SnapshotRepository using SQLite
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

var _ repository.SnapshotRepository = (*Repository)(nil)

// New creates a new SQLite repository. ":memory:" opens a private in-memory
// database.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		sep := "?"
		if strings.Contains(dbPath, "?") {
			sep = "&"
		}
		dsn = dbPath + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps in-memory databases coherent and serialises writers
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db, now: time.Now}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	PRAGMA foreign_keys = ON;

	CREATE TABLE IF NOT EXISTS snapshots (
		name TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshot_nodes (
		snapshot TEXT NOT NULL,
		position INTEGER NOT NULL,
		id TEXT NOT NULL,
		id_numeric INTEGER NOT NULL DEFAULT 0,
		size REAL NOT NULL,
		color TEXT NOT NULL,
		text TEXT NOT NULL,
		x REAL,
		y REAL,
		vx REAL NOT NULL DEFAULT 0,
		vy REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (snapshot, position),
		FOREIGN KEY (snapshot) REFERENCES snapshots(name) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS snapshot_links (
		snapshot TEXT NOT NULL,
		position INTEGER NOT NULL,
		source TEXT NOT NULL,
		source_numeric INTEGER NOT NULL DEFAULT 0,
		target TEXT NOT NULL,
		target_numeric INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (snapshot, position),
		FOREIGN KEY (snapshot) REFERENCES snapshots(name) ON DELETE CASCADE
	);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close releases the database
func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveSnapshot creates or replaces a named snapshot in one transaction
func (r *Repository) SaveSnapshot(ctx context.Context, name string, snap domain.Snapshot) (domain.SnapshotInfo, error) {
	if err := repository.ValidateName(name); err != nil {
		return domain.SnapshotInfo{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.SnapshotInfo{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := timeToColumn(r.now())
	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (name, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET updated_at = excluded.updated_at
	`, name, now, now)
	if err != nil {
		return domain.SnapshotInfo{}, fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_nodes WHERE snapshot = ?`, name); err != nil {
		return domain.SnapshotInfo{}, fmt.Errorf("failed to clear nodes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_links WHERE snapshot = ?`, name); err != nil {
		return domain.SnapshotInfo{}, fmt.Errorf("failed to clear links: %w", err)
	}

	nodeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_nodes (snapshot, position, id, id_numeric, size, color, text, x, y, vx, vy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return domain.SnapshotInfo{}, fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for i, n := range snap.Nodes {
		id, numeric := idToColumns(n.ID)
		_, err := nodeStmt.ExecContext(ctx, name, i, id, numeric, n.Size, n.Color, n.Text,
			floatToNull(n.X), floatToNull(n.Y), n.VX, n.VY)
		if err != nil {
			return domain.SnapshotInfo{}, fmt.Errorf("failed to insert node %s: %w", n.ID, err)
		}
	}

	linkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_links (snapshot, position, source, source_numeric, target, target_numeric)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return domain.SnapshotInfo{}, fmt.Errorf("failed to prepare link insert: %w", err)
	}
	defer linkStmt.Close()

	for i, l := range snap.Links {
		source, sourceNumeric := idToColumns(l.Source)
		target, targetNumeric := idToColumns(l.Target)
		if _, err := linkStmt.ExecContext(ctx, name, i, source, sourceNumeric, target, targetNumeric); err != nil {
			return domain.SnapshotInfo{}, fmt.Errorf("failed to insert link %s: %w", l.Key(), err)
		}
	}

	info, err := getInfo(ctx, tx, name)
	if err != nil {
		return domain.SnapshotInfo{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.SnapshotInfo{}, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return info, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const infoQuery = `
	SELECT s.name, s.created_at, s.updated_at,
		(SELECT COUNT(*) FROM snapshot_nodes n WHERE n.snapshot = s.name),
		(SELECT COUNT(*) FROM snapshot_links l WHERE l.snapshot = s.name)
	FROM snapshots s
`

func scanInfo(scan func(dest ...any) error) (domain.SnapshotInfo, error) {
	var (
		info             domain.SnapshotInfo
		created, updated int64
	)
	if err := scan(&info.Name, &created, &updated, &info.NodeCount, &info.LinkCount); err != nil {
		return domain.SnapshotInfo{}, err
	}
	info.CreatedAt = columnToTime(created)
	info.UpdatedAt = columnToTime(updated)
	return info, nil
}

func getInfo(ctx context.Context, q querier, name string) (domain.SnapshotInfo, error) {
	info, err := scanInfo(q.QueryRowContext(ctx, infoQuery+` WHERE s.name = ?`, name).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SnapshotInfo{}, fmt.Errorf("%w: %s", repository.ErrNotFound, name)
	}
	if err != nil {
		return domain.SnapshotInfo{}, fmt.Errorf("failed to load snapshot info: %w", err)
	}
	return info, nil
}

// GetSnapshotInfo describes one snapshot
func (r *Repository) GetSnapshotInfo(ctx context.Context, name string) (domain.SnapshotInfo, error) {
	return getInfo(ctx, r.db, name)
}

// ListSnapshots describes every snapshot ordered by name
func (r *Repository) ListSnapshots(ctx context.Context) ([]domain.SnapshotInfo, error) {
	rows, err := r.db.QueryContext(ctx, infoQuery+` ORDER BY s.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	infos := make([]domain.SnapshotInfo, 0)
	for rows.Next() {
		info, err := scanInfo(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return infos, nil
}

// GetSnapshot loads a named snapshot in stored order
func (r *Repository) GetSnapshot(ctx context.Context, name string) (domain.Snapshot, error) {
	if _, err := getInfo(ctx, r.db, name); err != nil {
		return domain.Snapshot{}, err
	}

	snap := domain.NewSnapshot()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, id_numeric, size, color, text, x, y, vx, vy
		FROM snapshot_nodes WHERE snapshot = ? ORDER BY position
	`, name)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idText       string
			numeric      bool
			size, vx, vy float64
			color, text  string
			x, y         sql.NullFloat64
		)
		if err := rows.Scan(&idText, &numeric, &size, &color, &text, &x, &y, &vx, &vy); err != nil {
			return domain.Snapshot{}, fmt.Errorf("failed to scan node: %w", err)
		}
		id, err := columnsToID(idText, numeric)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("failed to decode node id: %w", err)
		}
		n := domain.NewNode(id, size, color, text)
		n.X = nullToFloat(x, math.NaN())
		n.Y = nullToFloat(y, math.NaN())
		n.VX, n.VY = vx, vy
		snap.AddNode(*n)
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("error iterating nodes: %w", err)
	}

	linkRows, err := r.db.QueryContext(ctx, `
		SELECT source, source_numeric, target, target_numeric
		FROM snapshot_links WHERE snapshot = ? ORDER BY position
	`, name)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to query links: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var (
			sourceText, targetText       string
			sourceNumeric, targetNumeric bool
		)
		if err := linkRows.Scan(&sourceText, &sourceNumeric, &targetText, &targetNumeric); err != nil {
			return domain.Snapshot{}, fmt.Errorf("failed to scan link: %w", err)
		}
		source, err := columnsToID(sourceText, sourceNumeric)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("failed to decode link source: %w", err)
		}
		target, err := columnsToID(targetText, targetNumeric)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("failed to decode link target: %w", err)
		}
		snap.AddLink(domain.NewLink(source, target))
	}
	if err := linkRows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("error iterating links: %w", err)
	}

	return *snap, nil
}

// DeleteSnapshot removes a snapshot and its rows
func (r *Repository) DeleteSnapshot(ctx context.Context, name string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"snapshot_nodes", "snapshot_links"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE snapshot = ?`, name); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", repository.ErrNotFound, name)
	}

	return tx.Commit()
}
