package repository

import (
	"github.com/google/uuid"

	"github.com/yourusername/wonderlic-api/internal/domain/entity"
)

// AttemptRepository определяет методы доступа к журналу попыток.
// Журналом владеет внешний сервис тестирования, этот сервис его только читает.
type AttemptRepository interface {
	// GetByUser возвращает все попытки пользователя, новые первыми
	GetByUser(userID uuid.UUID) ([]entity.TestAttempt, error)

	// GetByUsers возвращает попытки указанных пользователей, сгруппированные
	// по пользователю. Пользователи без попыток в карте отсутствуют.
	GetByUsers(userIDs []uuid.UUID) (map[uuid.UUID][]entity.TestAttempt, error)

	// ActiveUserIDs возвращает идентификаторы всех пользователей,
	// совершивших хотя бы одну попытку
	ActiveUserIDs() ([]uuid.UUID, error)

	// BestScore возвращает лучший счет пользователя.
	// Если попыток нет, возвращает apperrors.ErrNotFound.
	BestScore(userID uuid.UUID) (int, error)

	// CountUsersWithBestAbove возвращает количество различных пользователей,
	// чей лучший счет строго больше заданного
	CountUsersWithBestAbove(score int) (int64, error)
}
