package entity

import (
	"time"

	"github.com/google/uuid"
)

// GroupMember связывает пользователя с группой.
// Состав может меняться в любой момент, поэтому членство разрешается
// заново при каждой агрегации и никогда не кешируется между вызовами.
type GroupMember struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	GroupID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_group_user" json:"group_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_group_user" json:"user_id"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`
}

// TableName определяет имя таблицы для GORM
func (GroupMember) TableName() string {
	return "group_members"
}
