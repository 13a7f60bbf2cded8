package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipebox/internal/models"
)

const (
	MessageVoteRecorded = "Vote recorded."
	MessageVoteChanged  = "Vote changed."
)

// VoteResult reports the outcome of a vote and the updated aggregate.
type VoteResult struct {
	Message string  `json:"message"`
	Changed bool    `json:"changed"`
	Score   int     `json:"score"`
	Votes   int     `json:"votes"`
	Average float64 `json:"average"`
}

// RatingSummary is the aggregate shown with a recipe.
type RatingSummary struct {
	Votes   int     `json:"votes"`
	Average float64 `json:"average"`
}

// RatingService records votes and maintains each recipe's Rating.
type RatingService struct {
	db *gorm.DB
}

// NewRatingService creates a new RatingService instance
func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// Vote records voter's score for a recipe. Each user holds one vote per
// recipe; voting again replaces the earlier score without adding a vote.
// The vote insert relies on the (user, recipe) unique index and the
// aggregate is updated with SQL-side arithmetic, so concurrent votes do not
// overwrite each other.
func (s *RatingService) Vote(ctx context.Context, recipeID uuid.UUID, score int, voter *models.User) (*VoteResult, error) {
	if voter == nil {
		return nil, ErrUnauthenticated
	}
	if score < models.MinScore || score > models.MaxScore {
		return nil, NewValidationError("score", fmt.Sprintf("Score must be between %d and %d.", models.MinScore, models.MaxScore))
	}

	result := &VoteResult{Message: MessageVoteRecorded, Score: score}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := visibleRecipe(tx, recipeID, voter)
		if err != nil {
			return err
		}

		vote := models.Vote{RecipeID: recipe.ID, UserID: voter.ID, Score: score}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&vote)
		if res.Error != nil {
			return fmt.Errorf("failed to record vote: %w", res.Error)
		}

		if res.RowsAffected == 1 {
			rating := models.Rating{RecipeID: recipe.ID, Votes: 1, Score: score}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "recipe_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"votes":      gorm.Expr("ratings.votes + ?", 1),
					"score":      gorm.Expr("ratings.score + ?", score),
					"updated_at": time.Now(),
				}),
			}).Create(&rating).Error
			if err != nil {
				return fmt.Errorf("failed to update rating: %w", err)
			}
		} else {
			// The row lock orders concurrent re-votes by the same user, so
			// each delta is taken against the score the previous one wrote.
			var existing models.Vote
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("recipe_id = ? AND user_id = ?", recipe.ID, voter.ID).
				Take(&existing).Error
			if err != nil {
				return fmt.Errorf("failed to load vote: %w", err)
			}
			delta := score - existing.Score
			if err := tx.Model(&existing).Update("score", score).Error; err != nil {
				return fmt.Errorf("failed to update vote: %w", err)
			}
			if delta != 0 {
				err := tx.Model(&models.Rating{}).Where("recipe_id = ?", recipe.ID).
					Updates(map[string]interface{}{
						"score":      gorm.Expr("score + ?", delta),
						"updated_at": time.Now(),
					}).Error
				if err != nil {
					return fmt.Errorf("failed to update rating: %w", err)
				}
			}
			result.Changed = true
			result.Message = MessageVoteChanged
		}

		var rating models.Rating
		if err := tx.Where("recipe_id = ?", recipe.ID).Take(&rating).Error; err != nil {
			return fmt.Errorf("failed to load rating: %w", err)
		}
		result.Votes = rating.Votes
		result.Average = rating.Average()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Summary returns the vote count and average, zero for unrated recipes.
func (s *RatingService) Summary(ctx context.Context, recipeID uuid.UUID) (RatingSummary, error) {
	var rating models.Rating
	err := s.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Take(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RatingSummary{}, nil
	}
	if err != nil {
		return RatingSummary{}, fmt.Errorf("failed to load rating: %w", err)
	}
	return RatingSummary{Votes: rating.Votes, Average: rating.Average()}, nil
}
