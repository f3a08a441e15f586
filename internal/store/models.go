package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Player is the relational mirror of an engine user.
type Player struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ExternalID string    `gorm:"uniqueIndex;not null"`
	Name       string    `gorm:"type:varchar(100)"`
	Status     string    `gorm:"type:varchar(20);default:'active'"`
	CreatedAt  time.Time
}

func (Player) TableName() string { return "players" }

// NormalRating holds the ng1v1/ng5v5 buckets, one row per bucket.
type NormalRating struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PlayerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Bucket   string    `gorm:"type:varchar(10);not null"`
	Score    int       `gorm:"not null"`
	Wins     int       `gorm:"not null;default:0"`
	Losses   int       `gorm:"not null;default:0"`

	Player *Player `gorm:"foreignKey:PlayerID"`
}

func (NormalRating) TableName() string { return "normal_ratings" }

// RankedRating holds the rk1v1/rk5v5 buckets, one row per bucket.
type RankedRating struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PlayerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Bucket   string    `gorm:"type:varchar(10);not null"`
	Score    int       `gorm:"not null"`
	Wins     int       `gorm:"not null;default:0"`
	Losses   int       `gorm:"not null;default:0"`

	Player *Player `gorm:"foreignKey:PlayerID"`
}

func (RankedRating) TableName() string { return "ranked_ratings" }

// MatchHistory records one finished (or launched) match with its roster
// and the picked/banned hero snapshot taken at draft completion.
type MatchHistory struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	GameID    uint64         `gorm:"not null;index"`
	Mode      string         `gorm:"type:varchar(10);not null"`
	WinTeam   int            `gorm:"default:-1"`
	Roster    datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	Heroes    datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Bans      datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MatchHistory) TableName() string { return "match_history" }
