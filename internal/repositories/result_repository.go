package repositories

import (
	"github.com/wisdomlc/quiz_bot/internal/models"
	"github.com/wisdomlc/quiz_bot/pkg/errors"
	"gorm.io/gorm"
)

type ResultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// CreateRoom persists the room record used for invite expiry checks and
// post-eviction leaderboards
func (r *ResultRepository) CreateRoom(room *models.QuizRoom) error {
	result := r.db.Create(room)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create room record")
	}
	return nil
}

// GetRoomByCode retrieves a room record by its invite code
func (r *ResultRepository) GetRoomByCode(code string) (*models.QuizRoom, error) {
	var room models.QuizRoom
	result := r.db.Where("room_code = ?", code).First(&room)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "room record not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get room record")
	}

	return &room, nil
}

// CreateResult persists one participant's final score
func (r *ResultRepository) CreateResult(res *models.QuizResult) error {
	result := r.db.Create(res)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to save result")
	}
	return nil
}

// GetResultsByRoomCode returns a room's scores in finish order. Insertion
// id is the tie-break, so ranking stays stable after a restart.
func (r *ResultRepository) GetResultsByRoomCode(code string) ([]models.QuizResult, error) {
	var results []models.QuizResult
	result := r.db.Where("room_code = ?", code).Order("id").Find(&results)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to load results")
	}
	return results, nil
}
