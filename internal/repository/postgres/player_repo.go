package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/wonderlic-api/internal/domain/entity"
)

// PlayerRepo реализует repository.PlayerRepository
type PlayerRepo struct {
	db *gorm.DB
}

// NewPlayerRepo создает новый репозиторий эталонного набора игроков
func NewPlayerRepo(db *gorm.DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

// GetAll возвращает весь эталонный набор, отсортированный по счету по возрастанию
func (r *PlayerRepo) GetAll() ([]entity.NFLPlayer, error) {
	var players []entity.NFLPlayer
	err := r.db.Order("wonderlic_score ASC, name ASC").Find(&players).Error
	return players, err
}

// Upsert создает запись игрока или обновляет существующую по паре (name, draft_year)
func (r *PlayerRepo) Upsert(player *entity.NFLPlayer) error {
	var existing entity.NFLPlayer
	err := r.db.Where("name = ? AND draft_year = ?", player.Name, player.DraftYear).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(player).Error
		}
		return err
	}

	return r.db.Model(&existing).Updates(map[string]interface{}{
		"position":        player.Position,
		"team":            player.Team,
		"wonderlic_score": player.WonderlicScore,
	}).Error
}
