package repository

import (
	"github.com/yourusername/wonderlic-api/internal/domain/entity"
)

// PlayerRepository определяет методы доступа к эталонному набору игроков NFL
type PlayerRepository interface {
	// GetAll возвращает весь эталонный набор, отсортированный
	// по счету по возрастанию
	GetAll() ([]entity.NFLPlayer, error)

	// Upsert создает запись игрока или обновляет существующую
	// по паре (name, draft_year). Используется утилитой импорта.
	Upsert(player *entity.NFLPlayer) error
}
