package repository

import (
	"github.com/google/uuid"

	"github.com/yourusername/wonderlic-api/internal/domain/entity"
)

// UserRepository определяет методы чтения данных пользователей.
// Записи принадлежат внешнему сервису идентификации.
type UserRepository interface {
	// GetByID возвращает пользователя по ID или apperrors.ErrNotFound
	GetByID(id uuid.UUID) (*entity.User, error)

	// GetByIDs возвращает пользователей по списку ID.
	// Отсутствующие ID молча пропускаются.
	GetByIDs(ids []uuid.UUID) ([]entity.User, error)
}
