package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Score bounds for a single vote.
const (
	MinScore = 1
	MaxScore = 5
)

// Rating is the per-recipe vote aggregate, created on the first vote.
type Rating struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"-"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"recipe_id"`
	Votes     int       `gorm:"not null;default:0" json:"votes"`
	Score     int       `gorm:"not null;default:0" json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a new id when the caller did not set one.
func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Average returns the mean score, or zero when there are no votes.
func (r *Rating) Average() float64 {
	if r == nil || r.Votes == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Votes)
}

// Vote is a single user's score for a recipe. One per (user, recipe).
type Vote struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_vote_user_recipe" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_vote_user_recipe" json:"user_id"`
	Score     int       `gorm:"not null;check:score >= 1 AND score <= 5" json:"score"`
}

// BeforeCreate assigns a new id when the caller did not set one.
func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
