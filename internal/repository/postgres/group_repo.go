package postgres

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/wonderlic-api/internal/domain/entity"
	apperrors "github.com/yourusername/wonderlic-api/internal/pkg/errors"
)

// GroupRepo реализует repository.GroupRepository
type GroupRepo struct {
	db *gorm.DB
}

// NewGroupRepo создает новый репозиторий групп
func NewGroupRepo(db *gorm.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// GetByID возвращает группу по ID
func (r *GroupRepo) GetByID(id uuid.UUID) (*entity.Group, error) {
	var group entity.Group
	err := r.db.First(&group, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// GetMemberIDs возвращает идентификаторы участников группы.
// Состав читается заново при каждом вызове: членство может измениться
// в любой момент между агрегациями.
func (r *GroupRepo) GetMemberIDs(groupID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&entity.GroupMember{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &ids).Error
	return ids, err
}
