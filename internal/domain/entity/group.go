package entity

import (
	"time"

	"github.com/google/uuid"
)

// Group представляет приватную группу пользователей.
// Создание, вступление и выход управляются внешним сервисом групп;
// здесь состав группы только читается для вычисления лидерборда.
type Group struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	InviteCode string    `gorm:"size:8;not null;uniqueIndex" json:"invite_code"`
	CreatorID  uuid.UUID `gorm:"type:uuid;not null" json:"creator_id"`
	IsPublic   bool      `gorm:"not null;default:false" json:"is_public"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Group) TableName() string {
	return "groups"
}
