package model

import (
	"time"

	"github.com/google/uuid"
)

// Player represents a joined participant. TotalScore is derived state, the
// running sum of points_earned over the player's correct answers, stored
// redundantly for fast leaderboard reads. The scoring path is its only writer;
// the reconcile worker repairs any drift.
type Player struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	JoinCode   string    `json:"join_code"`
	TotalScore int       `json:"total_score"`
	CreatedAt  time.Time `json:"created_at"`
}

// JoinGameRequest is the payload for a first-time join.
type JoinGameRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// RejoinGameRequest resumes a session with a previously issued join code.
type RejoinGameRequest struct {
	JoinCode string `json:"join_code" binding:"required,min=1,max=20"`
}

// LeaderboardEntry is a ranked view of one player.
type LeaderboardEntry struct {
	Rank       int       `json:"rank"`
	PlayerID   uuid.UUID `json:"player_id"`
	Name       string    `json:"name"`
	TotalScore int       `json:"total_score"`
}

// Leaderboard is the full standings snapshot plus the revealed questions that
// produced them.
type Leaderboard struct {
	Entries     []LeaderboardEntry `json:"entries"`
	Revealed    []Question         `json:"revealed_questions"`
	GeneratedAt time.Time          `json:"generated_at"`
}
