package repository

import (
	"github.com/google/uuid"

	"github.com/yourusername/wonderlic-api/internal/domain/entity"
)

// GroupRepository определяет методы чтения групп и их состава.
// CRUD групп выполняет внешний сервис; здесь только разрешение состава.
type GroupRepository interface {
	// GetByID возвращает группу по ID или apperrors.ErrNotFound
	GetByID(id uuid.UUID) (*entity.Group, error)

	// GetMemberIDs возвращает идентификаторы участников группы.
	// Несуществующая или пустая группа дает пустой слайс, не ошибку.
	GetMemberIDs(groupID uuid.UUID) ([]uuid.UUID, error)
}
