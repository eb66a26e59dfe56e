package game

import (
	"time"

	"goban/internal/domain/record"
)

// View is what clients see of a game at its cursor.
type View struct {
	GameID         string                `json:"game_id"`
	BoardSize      int                   `json:"board_size"`
	Board          [][]string            `json:"board"`
	Cursor         int                   `json:"cursor"`
	MovesPlayed    int                   `json:"moves_played"`
	Turn           string                `json:"turn"`
	Captured       record.CapturedCounts `json:"captured"`
	CanStepBack    bool                  `json:"can_step_back"`
	CanStepForward bool                  `json:"can_step_forward"`
}

// CachedGame is the redis form of a live game. Raw counts the leading moves
// that were imported from SGF and placed without rule checks.
type CachedGame struct {
	SGF    string `redis:"sgf"`
	Raw    int    `redis:"raw"`
	Cursor int    `redis:"cursor"`
}

type ArchivedGame struct {
	ID          string                `json:"id" bson:"_id"`
	GameID      string                `json:"game_id" bson:"game_id"`
	BoardSize   int                   `json:"board_size" bson:"board_size"`
	MovesPlayed int                   `json:"moves_played" bson:"moves_played"`
	Captured    record.CapturedCounts `json:"captured" bson:"captured"`
	SGF         string                `json:"sgf" bson:"sgf"`
	ArchivedAt  time.Time             `json:"archived_at" bson:"archived_at"`
}

type CreateGameRequest struct {
	BoardSize int `json:"board_size"`
}
