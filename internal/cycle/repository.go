package cycle

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	// timestampLayout is fixed width so created_at sorts lexically.
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
)

// Repository stores solved runs.
//
// Implementations must be thread-safe and use UTC timestamps.
type Repository interface {
	// Save persists a solved run. The run must have an ID.
	Save(ctx context.Context, res *Result) error

	// Get returns the run with the given ID, or ErrRunNotFound.
	Get(ctx context.Context, id string) (*Result, error)

	// List returns recent runs, newest first. limit is clamped to
	// [1, 200]; zero or negative selects 50.
	List(ctx context.Context, limit int) ([]Result, error)
}

// runColumns is the SELECT column list for run queries.
const runColumns = `id, spec, states, pump_work_in, boiler_heat_in, turbine_work_out,
			condenser_heat_out, net_work, efficiency, back_work_ratio, heat_balance_error, created_at`

// SQLiteRepository implements Repository using SQLite.
//
// Spec and state points are stored as JSON in the cycle_runs table; the
// energy figures get their own columns so they can be queried directly.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite run repository.
//
// Parameters:
//   - db: Open SQLite connection with migrations applied
//
// Returns:
//   - *SQLiteRepository: Repository instance ready for use
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save inserts a solved run.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - res: Solved run with ID set
//
// Returns:
//   - error: nil on success, otherwise the underlying database error
func (r *SQLiteRepository) Save(ctx context.Context, res *Result) error {
	if res == nil || res.ID == "" {
		return fmt.Errorf("run id is required")
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}

	specJSON, err := json.Marshal(res.Spec)
	if err != nil {
		return fmt.Errorf("marshalling spec: %w", err)
	}
	statesJSON, err := json.Marshal(res.States)
	if err != nil {
		return fmt.Errorf("marshalling states: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO cycle_runs (`+runColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID,
		string(specJSON),
		string(statesJSON),
		res.PumpWorkIn,
		res.BoilerHeatIn,
		res.TurbineWorkOut,
		res.CondenserHeatOut,
		res.NetWork,
		res.Efficiency,
		res.BackWorkRatio,
		res.HeatBalanceError,
		res.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting cycle run: %w", err)
	}
	return nil
}

// Get returns a run by ID.
//
// Returns:
//   - *Result: the stored run
//   - error: ErrRunNotFound when no run has the ID, otherwise the
//     underlying query error
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Result, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM cycle_runs WHERE id = ?`, id)
	res, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("querying cycle run: %w", err)
	}
	return res, nil
}

// List returns recent runs ordered by created_at DESC.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - limit: Maximum runs to return (default 50, max 200)
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+runColumns+`
		 FROM cycle_runs
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying cycle runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Result, 0, limit)
	for rows.Next() {
		res, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cycle runs: %w", err)
	}
	return runs, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Result, error) {
	var (
		res        Result
		specJSON   string
		statesJSON string
		createdAt  string
	)
	err := row.Scan(
		&res.ID,
		&specJSON,
		&statesJSON,
		&res.PumpWorkIn,
		&res.BoilerHeatIn,
		&res.TurbineWorkOut,
		&res.CondenserHeatOut,
		&res.NetWork,
		&res.Efficiency,
		&res.BackWorkRatio,
		&res.HeatBalanceError,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(specJSON), &res.Spec); err != nil {
		return nil, fmt.Errorf("unmarshalling spec: %w", err)
	}
	if err := json.Unmarshal([]byte(statesJSON), &res.States); err != nil {
		return nil, fmt.Errorf("unmarshalling states: %w", err)
	}
	ts, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}
	res.CreatedAt = ts
	return &res, nil
}

// parseTimestamp parses a timestamp stored in SQLite.
func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("created_at is empty")
	}

	timestamp, err := time.Parse(time.RFC3339Nano, value)
	if err == nil {
		return timestamp, nil
	}

	fallback, fallbackErr := time.Parse("2006-01-02T15:04:05Z", value)
	if fallbackErr == nil {
		return fallback, nil
	}

	return time.Time{}, fmt.Errorf("parsing created_at: %w", err)
}
