package service

import (
	"fmt"
	"log"
	"sort"

	"github.com/yourusername/wonderlic-api/internal/domain/entity"
	"github.com/yourusername/wonderlic-api/internal/domain/repository"
	"github.com/yourusername/wonderlic-api/internal/handler/dto"
)

// ClosestMatchWindow — максимальное расстояние до счета, при котором
// игрок еще считается "ближайшим совпадением"
const ClosestMatchWindow = 2

// ComparisonService сопоставляет счет пользователя с эталонным набором
// игроков NFL. Набор загружается один раз при создании сервиса и далее
// неизменяем, поэтому конкурентные вызовы не требуют синхронизации.
type ComparisonService struct {
	// Отсортированы по счету по возрастанию
	players []entity.NFLPlayer
}

// NewComparisonService создает сервис сравнения, загружая эталонный набор.
// Пустой набор не считается ошибкой: все сравнения будут давать пустой результат.
func NewComparisonService(playerRepo repository.PlayerRepository) (*ComparisonService, error) {
	players, err := playerRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load reference players: %w", err)
	}

	// Репозиторий уже отдает сортировку, но на нее не полагаемся
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].WonderlicScore < players[j].WonderlicScore
	})

	if len(players) == 0 {
		log.Println("[ComparisonService] Эталонный набор пуст: сравнения будут возвращать пустой результат")
	} else {
		log.Printf("[ComparisonService] Загружено %d эталонных записей (счета %d..%d)",
			len(players), players[0].WonderlicScore, players[len(players)-1].WonderlicScore)
	}

	return &ComparisonService{players: players}, nil
}

// Compare возвращает для заданного счета точное совпадение, ближайшее
// совпадение в окне ±2 (только при отсутствии точного), ближайшего игрока
// со счетом строго выше и строго ниже. Каждое из четырех полей независимо
// может отсутствовать; счет вне диапазона набора не является ошибкой.
func (s *ComparisonService) Compare(score int) *dto.ScoreComparisonDTO {
	result := &dto.ScoreComparisonDTO{Score: score}

	result.ExactMatch = s.exactMatch(score)
	if result.ExactMatch == nil {
		result.ClosestMatch = s.closestMatch(score)
	}
	result.HigherScore = s.higherNeighbor(score)
	result.LowerScore = s.lowerNeighbor(score)

	return result
}

// PlayerMatch возвращает точное или ближайшее (в окне ±2) совпадение —
// одного игрока для бейджа в лидерборде. Возвращает nil, если подходящего
// игрока нет.
func (s *ComparisonService) PlayerMatch(score int) *entity.NFLPlayer {
	if match := s.exactMatch(score); match != nil {
		return match
	}
	return s.closestMatch(score)
}

// exactMatch возвращает игрока с тем же счетом, при нескольких — первого
// в порядке набора (выбор произвольный, но стабильный)
func (s *ComparisonService) exactMatch(score int) *entity.NFLPlayer {
	for i := range s.players {
		if s.players[i].WonderlicScore == score {
			return &s.players[i]
		}
		if s.players[i].WonderlicScore > score {
			break
		}
	}
	return nil
}

// closestMatch возвращает игрока с минимальным |счет - score| в окне ±2.
// При равном расстоянии побеждает первый найденный.
func (s *ComparisonService) closestMatch(score int) *entity.NFLPlayer {
	var closest *entity.NFLPlayer
	bestDiff := ClosestMatchWindow + 1

	for i := range s.players {
		diff := s.players[i].WonderlicScore - score
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			bestDiff = diff
			closest = &s.players[i]
		}
		if s.players[i].WonderlicScore-score > ClosestMatchWindow {
			break
		}
	}

	return closest
}

// higherNeighbor возвращает игрока с минимальным счетом строго больше score
func (s *ComparisonService) higherNeighbor(score int) *entity.NFLPlayer {
	for i := range s.players {
		if s.players[i].WonderlicScore > score {
			return &s.players[i]
		}
	}
	return nil
}

// lowerNeighbor возвращает игрока с максимальным счетом строго меньше score
func (s *ComparisonService) lowerNeighbor(score int) *entity.NFLPlayer {
	for i := len(s.players) - 1; i >= 0; i-- {
		if s.players[i].WonderlicScore < score {
			return &s.players[i]
		}
	}
	return nil
}
