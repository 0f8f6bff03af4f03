package repositories

import (
	"github.com/wisdomlc/quiz_bot/internal/models"
	"github.com/wisdomlc/quiz_bot/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(user *models.User) error {
	result := r.db.Create(user)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create user")
	}
	return nil
}

// GetUserByChatID retrieves a user by Telegram chat ID
func (r *UserRepository) GetUserByChatID(chatID int64) (*models.User, error) {
	var user models.User
	result := r.db.Where("chat_id = ?", chatID).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// UserExists checks if a user exists by chat ID
func (r *UserRepository) UserExists(chatID int64) (bool, error) {
	var count int64
	result := r.db.Model(&models.User{}).Where("chat_id = ?", chatID).Count(&count)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check user existence")
	}
	return count > 0, nil
}

// UpdateLanguage updates the user's interface language
func (r *UserRepository) UpdateLanguage(chatID int64, langID int) error {
	result := r.db.Model(&models.User{}).Where("chat_id = ?", chatID).Update("lang_id", langID)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update language")
	}
	return nil
}

// UpdateName updates the user's first and last name
func (r *UserRepository) UpdateName(chatID int64, firstName, lastName string) error {
	result := r.db.Model(&models.User{}).Where("chat_id = ?", chatID).Updates(map[string]interface{}{
		"first_name": firstName,
		"last_name":  lastName,
	})
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update name")
	}
	return nil
}

// GetAllChatIDs returns every registered chat id, for broadcast
func (r *UserRepository) GetAllChatIDs() ([]int64, error) {
	var chatIDs []int64
	result := r.db.Model(&models.User{}).Pluck("chat_id", &chatIDs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list chat ids")
	}
	return chatIDs, nil
}

// CountUsers returns the total registered user count
func (r *UserRepository) CountUsers() (int64, error) {
	var count int64
	result := r.db.Model(&models.User{}).Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count users")
	}
	return count, nil
}
