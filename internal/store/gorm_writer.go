package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/riftlab/matchd/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWriter implements Writer against the relational store.
type GormWriter struct {
	db *gorm.DB
}

func NewGormWriter(db *gorm.DB) *GormWriter {
	return &GormWriter{db: db}
}

// InsertLogins inserts the batch of new users plus one seeded rating
// row per bucket, reusing the generated player ids from the first
// insert. Existing external ids are skipped.
func (w *GormWriter) InsertLogins(ctx context.Context, logins []Login) error {
	players := make([]*Player, len(logins))
	for i, l := range logins {
		players[i] = &Player{ID: uuid.New(), ExternalID: l.UserID, Name: l.Name, Status: "active"}
	}

	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(players, 100).Error; err != nil {
			return err
		}

		var normals []*NormalRating
		var rankeds []*RankedRating
		for _, p := range players {
			for _, b := range []domain.Bucket{domain.BucketNg1v1, domain.BucketNg5v5} {
				normals = append(normals, &NormalRating{ID: uuid.New(), PlayerID: p.ID, Bucket: string(b), Score: domain.SeedScore})
			}
			for _, b := range []domain.Bucket{domain.BucketRk1v1, domain.BucketRk5v5} {
				rankeds = append(rankeds, &RankedRating{ID: uuid.New(), PlayerID: p.ID, Bucket: string(b), Score: domain.SeedScore})
			}
		}
		if err := tx.CreateInBatches(normals, 100).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(rankeds, 100).Error
	})
}

// WriteUpdate stores one bucket row for one user.
func (w *GormWriter) WriteUpdate(ctx context.Context, u Update) error {
	var player Player
	if err := w.db.WithContext(ctx).Where("external_id = ?", u.UserID).First(&player).Error; err != nil {
		return err
	}

	values := map[string]any{"score": u.Score, "wins": u.Wins, "losses": u.Losses}
	switch u.Bucket {
	case domain.BucketRk1v1, domain.BucketRk5v5:
		return w.db.WithContext(ctx).Model(&RankedRating{}).
			Where("player_id = ? AND bucket = ?", player.ID, string(u.Bucket)).
			Updates(values).Error
	default:
		return w.db.WithContext(ctx).Model(&NormalRating{}).
			Where("player_id = ? AND bucket = ?", player.ID, string(u.Bucket)).
			Updates(values).Error
	}
}

// WriteMatch upserts the match row keyed by game id: the draft snapshot
// is written at launch, the win team patched in at settlement.
func (w *GormWriter) WriteMatch(ctx context.Context, m MatchResult) error {
	roster, err := json.Marshal(m.Roster)
	if err != nil {
		return err
	}
	heroes, err := json.Marshal(m.Heroes)
	if err != nil {
		return err
	}
	bans, err := json.Marshal(m.Bans)
	if err != nil {
		return err
	}

	var existing MatchHistory
	tx := w.db.WithContext(ctx)
	err = tx.Where("game_id = ?", m.GameID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&MatchHistory{
			ID:      uuid.New(),
			GameID:  m.GameID,
			Mode:    string(m.Mode),
			WinTeam: m.WinTeam,
			Roster:  datatypes.JSON(roster),
			Heroes:  datatypes.JSON(heroes),
			Bans:    datatypes.JSON(bans),
		}).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&existing).Update("win_team", m.WinTeam).Error
}
