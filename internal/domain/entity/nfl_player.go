package entity

import (
	"time"

	"github.com/google/uuid"
)

// NFLPlayer представляет одну запись эталонного набора: игрока NFL
// с известным счетом Wonderlic. Набор загружается один раз и считается
// неизменяемым на все время работы процесса.
type NFLPlayer struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Position       string    `gorm:"size:10;not null" json:"position"`
	Team           string    `gorm:"size:255;not null" json:"team"`
	WonderlicScore int       `gorm:"not null;index" json:"wonderlic_score"`
	DraftYear      int       `gorm:"not null" json:"draft_year"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (NFLPlayer) TableName() string {
	return "nfl_players"
}
