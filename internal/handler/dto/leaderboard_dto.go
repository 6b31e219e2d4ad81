package dto

import "github.com/google/uuid"

// LeaderboardEntryDTO представляет одного пользователя в лидерборде.
// Вычисляется заново при каждой агрегации и нигде не хранится.
type LeaderboardEntryDTO struct {
	Rank          int       `json:"rank"`           // Место пользователя, начиная с 1
	UserID        uuid.UUID `json:"user_id"`        // ID пользователя
	Name          string    `json:"name"`           // Имя пользователя
	AvatarURL     string    `json:"avatar_url"`     // Аватар пользователя
	BestScore     int       `json:"best_score"`     // Лучший счет за все попытки
	TotalAttempts int       `json:"total_attempts"` // Количество попыток
	AvgScore      int       `json:"avg_score"`      // Округленный средний счет
}

// UserRankResponse представляет глобальный ранг пользователя.
// Rank равен 0, если у пользователя нет ни одной попытки.
type UserRankResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Rank   int       `json:"rank"`
}
