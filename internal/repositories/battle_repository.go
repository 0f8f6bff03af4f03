package repositories

import (
	"github.com/wisdomlc/quiz_bot/internal/models"
	"github.com/wisdomlc/quiz_bot/pkg/errors"
	"gorm.io/gorm"
)

type BattleRepository struct {
	db *gorm.DB
}

func NewBattleRepository(db *gorm.DB) *BattleRepository {
	return &BattleRepository{db: db}
}

// GetRootBattles returns top-level battle categories
func (r *BattleRepository) GetRootBattles() ([]models.Battle, error) {
	var battles []models.Battle
	result := r.db.Where("parent_id IS NULL").Order("id").Find(&battles)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list battles")
	}
	return battles, nil
}

// GetChildBattles returns the sub-battles of a parent
func (r *BattleRepository) GetChildBattles(parentID uint) ([]models.Battle, error) {
	var battles []models.Battle
	result := r.db.Where("parent_id = ?", parentID).Order("id").Find(&battles)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list sub-battles")
	}
	return battles, nil
}

// GetBattleByID retrieves a single battle
func (r *BattleRepository) GetBattleByID(id uint) (*models.Battle, error) {
	var battle models.Battle
	result := r.db.First(&battle, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "battle not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get battle")
	}

	return &battle, nil
}

// GetQuestionsByBattle returns the battle's full question pool
func (r *BattleRepository) GetQuestionsByBattle(battleID uint) ([]models.Question, error) {
	var questions []models.Question
	result := r.db.Where("battle_id = ?", battleID).Find(&questions)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to load questions")
	}
	return questions, nil
}

// CountQuestions returns the pool size of a battle
func (r *BattleRepository) CountQuestions(battleID uint) (int64, error) {
	var count int64
	result := r.db.Model(&models.Question{}).Where("battle_id = ?", battleID).Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count questions")
	}
	return count, nil
}

// CreateBattle creates a battle category
func (r *BattleRepository) CreateBattle(battle *models.Battle) error {
	result := r.db.Create(battle)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create battle")
	}
	return nil
}

// CreateQuestions bulk-inserts questions, used by the import script
func (r *BattleRepository) CreateQuestions(questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	result := r.db.Create(&questions)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create questions")
	}
	return nil
}
