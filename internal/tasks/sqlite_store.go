package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
)

// SQLiteStore keeps tasks in a private in-memory SQLite database. Nothing is
// written to disk; the data is gone once the store is closed.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Every connection to :memory: gets its own database.
	db.SetMaxOpenConns(1)

	store, err := NewSQLiteStoreFromDB(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func NewSQLiteStoreFromDB(db *sql.DB) (*SQLiteStore, error) {
	store := &SQLiteStore{db: db}
	if err := store.migrate(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			due_date TEXT NOT NULL DEFAULT '',
			is_completed INTEGER NOT NULL DEFAULT 0,
			priority TEXT NOT NULL CHECK (priority IN ('low', 'medium', 'high'))
		);`,
	}

	for _, statement := range statements {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("migrate sqlite schema: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) CreateTask(ctx context.Context, task Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start task insert tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var existing int
	row := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM tasks WHERE task_id = ?`, task.ID)
	if err := row.Scan(&existing); err != nil {
		return fmt.Errorf("check existing task: %w", err)
	}
	if existing > 0 {
		return ErrDuplicateTaskID
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO tasks(task_id, title, description, due_date, is_completed, priority)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.Title,
		task.Description,
		task.DueDate,
		boolToInt(task.IsCompleted),
		string(task.Priority),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit task insert tx: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTask(ctx context.Context, taskID string) (Task, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT task_id, title, description, due_date, is_completed, priority
		 FROM tasks
		 WHERE task_id = ?`,
		taskID,
	)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, false, nil
	}
	if err != nil {
		return Task{}, false, err
	}
	return task, true, nil
}

func (s *SQLiteStore) ListTasks(ctx context.Context) ([]Task, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT task_id, title, description, due_date, is_completed, priority
		 FROM tasks
		 ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return result, nil
}

func (s *SQLiteStore) SetCompleted(ctx context.Context, taskID string, completed bool) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE tasks SET is_completed = ? WHERE task_id = ?`,
		boolToInt(completed),
		taskID,
	)
	if err != nil {
		return false, fmt.Errorf("update task completion: %w", err)
	}
	return affected(res)
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, taskID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE task_id = ?`, taskID)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return affected(res)
}

func (s *SQLiteStore) CountByPriority(ctx context.Context) (map[Priority]int, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT priority, COUNT(1)
		 FROM tasks
		 GROUP BY priority`,
	)
	if err != nil {
		return nil, fmt.Errorf("query task priority counts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := make(map[Priority]int)
	for rows.Next() {
		var (
			priority string
			count    int
		)
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, fmt.Errorf("scan task priority count: %w", err)
		}
		counts[Priority(priority)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task priority counts: %w", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var (
		task      Task
		completed int64
		priority  string
	)

	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.DueDate, &completed, &priority)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, err
	}
	if err != nil {
		return Task{}, fmt.Errorf("scan task: %w", err)
	}

	task.IsCompleted = completed != 0
	task.Priority = Priority(priority)
	return task, nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read rows affected: %w", err)
	}
	return n > 0, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
