package dto

import "github.com/yourusername/wonderlic-api/internal/domain/entity"

// ScoreComparisonDTO представляет результат сравнения счета с эталонным набором.
// ExactMatch и ClosestMatch никогда не заполнены одновременно:
// ближайшее совпадение ищется только при отсутствии точного.
type ScoreComparisonDTO struct {
	Score        int               `json:"score"`                   // Сравниваемый счет
	ExactMatch   *entity.NFLPlayer `json:"exact_match,omitempty"`   // Игрок с тем же счетом
	ClosestMatch *entity.NFLPlayer `json:"closest_match,omitempty"` // Ближайший игрок в окне ±2
	HigherScore  *entity.NFLPlayer `json:"higher_score,omitempty"`  // Ближайший игрок со счетом строго выше
	LowerScore   *entity.NFLPlayer `json:"lower_score,omitempty"`   // Ближайший игрок со счетом строго ниже
}
