package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/park285/checkers-bot-tournament/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS tournament_runs (
	run_id      TEXT PRIMARY KEY,
	mode        TEXT NOT NULL,
	board_size  INTEGER NOT NULL,
	bots        JSONB NOT NULL,
	games       INTEGER NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS tournament_matches (
	run_id         TEXT NOT NULL REFERENCES tournament_runs (run_id) ON DELETE CASCADE,
	game_id        INTEGER NOT NULL,
	round          INTEGER NOT NULL,
	white_id       TEXT NOT NULL,
	black_id       TEXT NOT NULL,
	result         TEXT NOT NULL,
	reason         TEXT NOT NULL,
	moves          INTEGER NOT NULL,
	pdn            TEXT NOT NULL,
	white_kings    INTEGER NOT NULL,
	white_captures INTEGER NOT NULL,
	black_kings    INTEGER NOT NULL,
	black_captures INTEGER NOT NULL,
	failed_bot     TEXT NOT NULL DEFAULT '',
	error          TEXT NOT NULL DEFAULT '',
	recorded_at    TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (run_id, game_id)
);
CREATE TABLE IF NOT EXISTS tournament_standings (
	run_id           TEXT NOT NULL REFERENCES tournament_runs (run_id) ON DELETE CASCADE,
	bot_id           TEXT NOT NULL,
	rank             INTEGER NOT NULL,
	score            DOUBLE PRECISION NOT NULL,
	played           INTEGER NOT NULL,
	wins             INTEGER NOT NULL,
	draws            INTEGER NOT NULL,
	losses           INTEGER NOT NULL,
	white_wins       INTEGER NOT NULL,
	white_losses     INTEGER NOT NULL,
	black_wins       INTEGER NOT NULL,
	black_losses     INTEGER NOT NULL,
	forfeits         INTEGER NOT NULL,
	kings_made       INTEGER NOT NULL,
	captures         INTEGER NOT NULL,
	rating           DOUBLE PRECISION NOT NULL,
	sonneborn_berger DOUBLE PRECISION NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (run_id, bot_id)
);`

type PostgresRepository struct {
	db *sql.DB
}

// OpenPostgres connects with the pool settings used across services.
func OpenPostgres(databaseURL string) (*PostgresRepository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgresRepository(db), nil
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// EnsureSchema creates the tables if they do not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *PostgresRepository) StartRun(ctx context.Context, run *domain.TournamentRun) error {
	if run == nil {
		return fmt.Errorf("nil tournament run payload")
	}
	bots, err := json.Marshal(run.Bots)
	if err != nil {
		return fmt.Errorf("marshal bots: %w", err)
	}
	const query = `
		INSERT INTO tournament_runs (run_id, mode, board_size, bots, games, started_at)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6)
		ON CONFLICT (run_id) DO UPDATE SET
			mode = EXCLUDED.mode,
			board_size = EXCLUDED.board_size,
			bots = EXCLUDED.bots,
			games = EXCLUDED.games,
			started_at = EXCLUDED.started_at`
	if _, err := r.db.ExecContext(ctx, query, run.ID, run.Mode, run.BoardSize, bots, run.Games, run.StartedAt); err != nil {
		return fmt.Errorf("insert tournament run: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RecordMatch(ctx context.Context, rec *domain.MatchRecord) error {
	if rec == nil {
		return fmt.Errorf("nil match record payload")
	}
	const query = `
		INSERT INTO tournament_matches (
			run_id, game_id, round, white_id, black_id, result, reason, moves, pdn,
			white_kings, white_captures, black_kings, black_captures,
			failed_bot, error, recorded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (run_id, game_id) DO UPDATE SET
			result = EXCLUDED.result,
			reason = EXCLUDED.reason,
			moves = EXCLUDED.moves,
			pdn = EXCLUDED.pdn,
			white_kings = EXCLUDED.white_kings,
			white_captures = EXCLUDED.white_captures,
			black_kings = EXCLUDED.black_kings,
			black_captures = EXCLUDED.black_captures,
			failed_bot = EXCLUDED.failed_bot,
			error = EXCLUDED.error,
			recorded_at = EXCLUDED.recorded_at`
	_, err := r.db.ExecContext(ctx, query,
		rec.RunID, rec.GameID, rec.Round, rec.White, rec.Black, rec.Result, rec.Reason, rec.Moves, rec.PDN,
		rec.WhiteKings, rec.WhiteCaptures, rec.BlackKings, rec.BlackCaptures,
		rec.FailedBot, rec.Error, rec.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert match %d: %w", rec.GameID, err)
	}
	return nil
}

func (r *PostgresRepository) RecordStandings(ctx context.Context, runID string, rows []*domain.StandingRecord) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin standings tx: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM tournament_standings WHERE run_id = $1`, runID); err != nil {
		return fmt.Errorf("clear standings: %w", err)
	}
	const insert = `
		INSERT INTO tournament_standings (
			run_id, bot_id, rank, score, played, wins, draws, losses,
			white_wins, white_losses, black_wins, black_losses,
			forfeits, kings_made, captures, rating, sonneborn_berger, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	finished := time.Now()
	for _, s := range rows {
		if _, err = tx.ExecContext(ctx, insert,
			runID, s.BotID, s.Rank, s.Score, s.Played, s.Wins, s.Draws, s.Losses,
			s.WhiteWins, s.WhiteLosses, s.BlackWins, s.BlackLosses,
			s.Forfeits, s.KingsMade, s.Captures, s.Rating, s.SonnebornBerger, s.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert standing %s: %w", s.BotID, err)
		}
		finished = s.UpdatedAt
	}
	if _, err = tx.ExecContext(ctx, `UPDATE tournament_runs SET finished_at = $2 WHERE run_id = $1`, runID, finished); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit standings: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetRun(ctx context.Context, runID string) (*domain.TournamentRun, error) {
	const query = `
		SELECT run_id, mode, board_size, bots, games, started_at, finished_at
		FROM tournament_runs
		WHERE run_id = $1`
	var (
		run      domain.TournamentRun
		botsJSON []byte
		finished sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, runID).Scan(
		&run.ID, &run.Mode, &run.BoardSize, &botsJSON, &run.Games, &run.StartedAt, &finished,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select tournament run: %w", err)
	}
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	if err := json.Unmarshal(botsJSON, &run.Bots); err != nil {
		return nil, fmt.Errorf("unmarshal bots: %w", err)
	}
	return &run, nil
}

func (r *PostgresRepository) GetMatches(ctx context.Context, runID string) ([]*domain.MatchRecord, error) {
	const query = `
		SELECT
			run_id, game_id, round, white_id, black_id, result, reason, moves, pdn,
			white_kings, white_captures, black_kings, black_captures,
			failed_bot, error, recorded_at
		FROM tournament_matches
		WHERE run_id = $1
		ORDER BY game_id`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}
	defer rows.Close()

	var out []*domain.MatchRecord
	for rows.Next() {
		var m domain.MatchRecord
		if err := rows.Scan(
			&m.RunID, &m.GameID, &m.Round, &m.White, &m.Black, &m.Result, &m.Reason, &m.Moves, &m.PDN,
			&m.WhiteKings, &m.WhiteCaptures, &m.BlackKings, &m.BlackCaptures,
			&m.FailedBot, &m.Error, &m.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) GetStandings(ctx context.Context, runID string) ([]*domain.StandingRecord, error) {
	const query = `
		SELECT
			run_id, rank, bot_id, score, played, wins, draws, losses,
			white_wins, white_losses, black_wins, black_losses,
			forfeits, kings_made, captures, rating, sonneborn_berger, updated_at
		FROM tournament_standings
		WHERE run_id = $1
		ORDER BY rank`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("select standings: %w", err)
	}
	defer rows.Close()

	var out []*domain.StandingRecord
	for rows.Next() {
		var s domain.StandingRecord
		if err := rows.Scan(
			&s.RunID, &s.Rank, &s.BotID, &s.Score, &s.Played, &s.Wins, &s.Draws, &s.Losses,
			&s.WhiteWins, &s.WhiteLosses, &s.BlackWins, &s.BlackLosses,
			&s.Forfeits, &s.KingsMade, &s.Captures, &s.Rating, &s.SonnebornBerger, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate standings: %w", err)
	}
	return out, nil
}
