package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Счет по шкале Wonderlic: целое число от 0 до 50.
const (
	MinScore = 0
	MaxScore = 50
)

// TestAttempt представляет одну завершенную попытку прохождения теста.
// Журнал попыток append-only: записи создает внешний сервис тестирования,
// здесь они никогда не изменяются и не удаляются (кроме каскадного
// удаления вместе с пользователем).
type TestAttempt struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Score             int             `gorm:"not null" json:"score"`
	TimeTakenSeconds  int             `gorm:"not null" json:"time_taken_seconds"`
	CompletedAt       time.Time       `gorm:"not null;index" json:"completed_at"`
	QuestionsAnswered json.RawMessage `gorm:"type:jsonb;not null" json:"questions_answered"`
}

// TableName определяет имя таблицы для GORM
func (TestAttempt) TableName() string {
	return "test_attempts"
}
