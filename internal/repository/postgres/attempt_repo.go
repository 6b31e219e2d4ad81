package postgres

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/wonderlic-api/internal/domain/entity"
	apperrors "github.com/yourusername/wonderlic-api/internal/pkg/errors"
)

// AttemptRepo реализует repository.AttemptRepository
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создает новый репозиторий журнала попыток
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// GetByUser возвращает все попытки пользователя, новые первыми
func (r *AttemptRepo) GetByUser(userID uuid.UUID) ([]entity.TestAttempt, error) {
	var attempts []entity.TestAttempt
	err := r.db.Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&attempts).Error
	// Пустой слайс — валидный результат, ErrRecordNotFound здесь не возникает
	return attempts, err
}

// GetByUsers возвращает попытки указанных пользователей, сгруппированные по пользователю
func (r *AttemptRepo) GetByUsers(userIDs []uuid.UUID) (map[uuid.UUID][]entity.TestAttempt, error) {
	grouped := make(map[uuid.UUID][]entity.TestAttempt, len(userIDs))
	if len(userIDs) == 0 {
		return grouped, nil
	}

	var attempts []entity.TestAttempt
	err := r.db.Where("user_id IN ?", userIDs).
		Order("completed_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}

	for _, attempt := range attempts {
		grouped[attempt.UserID] = append(grouped[attempt.UserID], attempt)
	}
	return grouped, nil
}

// ActiveUserIDs возвращает идентификаторы всех пользователей с хотя бы одной попыткой
func (r *AttemptRepo) ActiveUserIDs() ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&entity.TestAttempt{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// BestScore возвращает лучший счет пользователя.
// Если у пользователя нет попыток, возвращает apperrors.ErrNotFound.
func (r *AttemptRepo) BestScore(userID uuid.UUID) (int, error) {
	var best *int
	err := r.db.Model(&entity.TestAttempt{}).
		Where("user_id = ?", userID).
		Select("MAX(score)").
		Scan(&best).Error
	if err != nil {
		return 0, err
	}
	// MAX по пустому множеству дает NULL
	if best == nil {
		return 0, apperrors.ErrNotFound
	}
	return *best, nil
}

// CountUsersWithBestAbove возвращает количество различных пользователей,
// чей лучший счет строго больше заданного.
// Достаточно посчитать пользователей с хотя бы одной попыткой выше порога:
// лучший счет пользователя больше порога тогда и только тогда, когда
// больше хотя бы одна из его попыток.
func (r *AttemptRepo) CountUsersWithBestAbove(score int) (int64, error) {
	var count int64
	err := r.db.Model(&entity.TestAttempt{}).
		Where("score > ?", score).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}
