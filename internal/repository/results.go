package repository

import (
	"context"
	"fmt"
	"time"
)

// MatchResult is the persisted summary of one finished match.
type MatchResult struct {
	GameID              string
	Outcome             string // COMPLETED or GAME_OVER
	Turns               int
	FinalVitality       int
	ChallengesWon       int
	ChallengesLost      int
	InsurancesActivated int
	TotalDamageAbsorbed int
	FinishedAt          time.Time
}

// ResultRepository stores match results.
type ResultRepository struct {
	db *DB
}

// NewResultRepository creates a repository on top of db.
func NewResultRepository(db *DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// EnsureSchema creates the match_results table if it does not exist.
func (r *ResultRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS match_results (
	id                    BIGSERIAL PRIMARY KEY,
	game_id               TEXT NOT NULL,
	outcome               TEXT NOT NULL,
	turns                 INT NOT NULL,
	final_vitality        INT NOT NULL,
	challenges_won        INT NOT NULL,
	challenges_lost       INT NOT NULL,
	insurances_activated  INT NOT NULL,
	total_damage_absorbed INT NOT NULL,
	finished_at           TIMESTAMPTZ NOT NULL
)`
	if _, err := r.db.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create match_results table: %w", err)
	}
	return nil
}

// Save inserts one match result.
func (r *ResultRepository) Save(ctx context.Context, result *MatchResult) error {
	const query = `
INSERT INTO match_results
	(game_id, outcome, turns, final_vitality, challenges_won, challenges_lost,
	 insurances_activated, total_damage_absorbed, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.pool.Exec(ctx, query,
		result.GameID,
		result.Outcome,
		result.Turns,
		result.FinalVitality,
		result.ChallengesWon,
		result.ChallengesLost,
		result.InsurancesActivated,
		result.TotalDamageAbsorbed,
		result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match result: %w", err)
	}
	return nil
}

// Recent returns the most recently finished matches, newest first.
func (r *ResultRepository) Recent(ctx context.Context, limit int) ([]*MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
SELECT game_id, outcome, turns, final_vitality, challenges_won, challenges_lost,
	insurances_activated, total_damage_absorbed, finished_at
FROM match_results
ORDER BY finished_at DESC
LIMIT $1`
	rows, err := r.db.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match results: %w", err)
	}
	defer rows.Close()

	var results []*MatchResult
	for rows.Next() {
		var m MatchResult
		if err := rows.Scan(
			&m.GameID, &m.Outcome, &m.Turns, &m.FinalVitality,
			&m.ChallengesWon, &m.ChallengesLost,
			&m.InsurancesActivated, &m.TotalDamageAbsorbed, &m.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match result: %w", err)
		}
		results = append(results, &m)
	}
	return results, rows.Err()
}
