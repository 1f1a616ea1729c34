package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamenight/trivia-backend/internal/model"
)

var ErrDuplicateJoinCode = errors.New("player with this join code already exists")

// PlayerRepository handles player data access.
type PlayerRepository struct {
	pool *pgxpool.Pool
}

// NewPlayerRepository creates a new PlayerRepository.
func NewPlayerRepository(pool *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{pool: pool}
}

// Create inserts a new player.
func (r *PlayerRepository) Create(ctx context.Context, p *model.Player) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO players (name, join_code)
		 VALUES ($1, $2)
		 RETURNING id, total_score, created_at`,
		p.Name, p.JoinCode,
	).Scan(&p.ID, &p.TotalScore, &p.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateJoinCode
		}
		return err
	}
	return nil
}

// GetByID retrieves a player by ID.
func (r *PlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Player, error) {
	p := &model.Player{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, join_code, total_score, created_at FROM players WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.JoinCode, &p.TotalScore, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByJoinCode retrieves a player by their unique rejoin code.
func (r *PlayerRepository) GetByJoinCode(ctx context.Context, joinCode string) (*model.Player, error) {
	p := &model.Player{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, join_code, total_score, created_at FROM players WHERE join_code = $1`, joinCode,
	).Scan(&p.ID, &p.Name, &p.JoinCode, &p.TotalScore, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List retrieves all players in leaderboard order: score descending,
// earlier joiners first on ties.
func (r *PlayerRepository) List(ctx context.Context) ([]model.Player, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, join_code, total_score, created_at
		 FROM players
		 ORDER BY total_score DESC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []model.Player
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.JoinCode, &p.TotalScore, &p.CreatedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// Delete removes a player. Their answers cascade at the schema level.
func (r *PlayerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteAll removes every player and, via cascade, every answer.
func (r *PlayerRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM players`)
	return err
}
