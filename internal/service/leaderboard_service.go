package service

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/wonderlic-api/internal/domain/entity"
	"github.com/yourusername/wonderlic-api/internal/domain/repository"
	"github.com/yourusername/wonderlic-api/internal/handler/dto"
	apperrors "github.com/yourusername/wonderlic-api/internal/pkg/errors"
)

// DefaultLeaderboardLimit — размер глобального лидерборда по умолчанию
const DefaultLeaderboardLimit = 100

// LeaderboardService агрегирует журнал попыток в упорядоченные лидерборды.
// Сервис не имеет состояния и не пишет в хранилища: каждый вызов —
// чистая проекция журнала и состава групп на момент чтения.
type LeaderboardService struct {
	attemptRepo  repository.AttemptRepository
	userRepo     repository.UserRepository
	groupRepo    repository.GroupRepository
	cacheRepo    repository.CacheRepository
	defaultLimit int
	rankCacheTTL time.Duration
}

// NewLeaderboardService создает новый сервис лидерборда.
// cacheRepo может быть nil — тогда ранг пользователя не кешируется.
func NewLeaderboardService(
	attemptRepo repository.AttemptRepository,
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
	cacheRepo repository.CacheRepository,
	defaultLimit int,
	rankCacheTTL time.Duration,
) *LeaderboardService {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLeaderboardLimit
	}
	return &LeaderboardService{
		attemptRepo:  attemptRepo,
		userRepo:     userRepo,
		groupRepo:    groupRepo,
		cacheRepo:    cacheRepo,
		defaultLimit: defaultLimit,
		rankCacheTTL: rankCacheTTL,
	}
}

/// GetGlobalLeaderboard возвращает глобальный лидерборд: всех пользователей
// с хотя бы одной попыткой, по убыванию лучшего счета, не более limit записей.
// При limit <= 0 применяется лимит по умолчанию.
func (s *LeaderboardService) GetGlobalLeaderboard(limit int) ([]*dto.LeaderboardEntryDTO, error) {
	if limit <= 0 || limit > s.defaultLimit {
		limit = s.defaultLimit
	}

	userIDs, err := s.attemptRepo.ActiveUserIDs()
	if err != nil {
		log.Printf("[LeaderboardService] Ошибка при чтении активных пользователей: %v", err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAggregationFailed, err)
	}

	return s.buildLeaderboard(userIDs, limit)
}

// GetGroupLeaderboard возвращает лидерборд группы. Состав группы разрешается
// заново при каждом вызове. Пустая или несуществующая группа дает пустой
// лидерборд, не ошибку. Длина результата не ограничивается.
func (s *LeaderboardService) GetGroupLeaderboard(groupID uuid.UUID) ([]*dto.LeaderboardEntryDTO, error) {
	memberIDs, err := s.groupRepo.GetMemberIDs(groupID)
	if err != nil {
		log.Printf("[LeaderboardService] Ошибка при разрешении состава группы %s: %v", groupID, err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAggregationFailed, err)
	}
	if len(memberIDs) == 0 {
		return []*dto.LeaderboardEntryDTO{}, nil
	}

	return s.buildLeaderboard(memberIDs, 0)
}

// GetUserRank возвращает глобальный ранг пользователя: количество различных
// пользователей со строго большим лучшим счетом плюс один. Возвращает 0,
// если у пользователя нет ни одной попытки.
//
// Ранг считается отдельным счетным запросом и не обязан совпадать с позицией
// пользователя в усеченном GetGlobalLeaderboard: полный список ограничен
// лимитом, счетный запрос — нет.
func (s *LeaderboardService) GetUserRank(userID uuid.UUID) (int, error) {
	cacheKey := fmt.Sprintf("leaderboard:rank:%s", userID)

	if s.cacheRepo != nil && s.rankCacheTTL > 0 {
		var cached int
		if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	best, err := s.attemptRepo.BestScore(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Пользователь без попыток не участвует в рейтинге
			return 0, nil
		}
		log.Printf("[LeaderboardService] Ошибка при чтении лучшего счета пользователя %s: %v", userID, err)
		return 0, fmt.Errorf("%w: %v", apperrors.ErrAggregationFailed, err)
	}

	higher, err := s.attemptRepo.CountUsersWithBestAbove(best)
	if err != nil {
		log.Printf("[LeaderboardService] Ошибка при подсчете ранга пользователя %s: %v", userID, err)
		return 0, fmt.Errorf("%w: %v", apperrors.ErrAggregationFailed, err)
	}

	rank := int(higher) + 1

	if s.cacheRepo != nil && s.rankCacheTTL > 0 {
		if err := s.cacheRepo.SetJSON(cacheKey, rank, s.rankCacheTTL); err != nil {
			// Ошибка кеша не мешает ответить
			log.Printf("[LeaderboardService] Не удалось закешировать ранг пользователя %s: %v", userID, err)
		}
	}

	return rank, nil
}

// GetUserAttempts возвращает историю попыток пользователя, новые первыми
func (s *LeaderboardService) GetUserAttempts(userID uuid.UUID) ([]entity.TestAttempt, error) {
	attempts, err := s.attemptRepo.GetByUser(userID)
	if err != nil {
		log.Printf("[LeaderboardService] Ошибка при чтении попыток пользователя %s: %v", userID, err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAggregationFailed, err)
	}
	return attempts, nil
}

// buildLeaderboard сводит попытки каждого пользователя из заданного множества
// к (лучший счет, округленный средний, количество попыток), отбрасывает
// пользователей без попыток, сортирует по убыванию лучшего счета и назначает
// ранги по позиции в списке, начиная с 1.
//
// Область видимости влияет только на то, КАКИЕ пользователи попадают в список:
// у попавшего пользователя учитываются все его попытки без фильтрации.
// Равные лучшие счета получают разные последовательные ранги; вторичный
// порядок по ID пользователя делает результат стабильным.
func (s *LeaderboardService) buildLeaderboard(userIDs []uuid.UUID, limit int) ([]*dto.LeaderboardEntryDTO, error) {
	attemptsByUser, err := s.attemptRepo.GetByUsers(userIDs)
	if err != nil {
		log.Printf("[LeaderboardService] Ошибка при чтении журнала попыток: %v", err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAggregationFailed, err)
	}

	users, err := s.userRepo.GetByIDs(userIDs)
	if err != nil {
		log.Printf("[LeaderboardService] Ошибка при чтении пользователей: %v", err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAggregationFailed, err)
	}
	usersByID := make(map[uuid.UUID]entity.User, len(users))
	for _, user := range users {
		usersByID[user.ID] = user
	}

	entries := make([]*dto.LeaderboardEntryDTO, 0, len(attemptsByUser))
	for userID, attempts := range attemptsByUser {
		if len(attempts) == 0 {
			continue
		}
		user, ok := usersByID[userID]
		if !ok {
			// Попытки удаляются каскадно вместе с пользователем,
			// поэтому сюда попадает только гонка чтения с удалением
			continue
		}

		best := entity.MinScore
		sum := 0
		for _, attempt := range attempts {
			if attempt.Score > best {
				best = attempt.Score
			}
			sum += attempt.Score
		}
		avg := int(math.Round(float64(sum) / float64(len(attempts))))

		entries = append(entries, &dto.LeaderboardEntryDTO{
			UserID:        userID,
			Name:          user.Name,
			AvatarURL:     user.AvatarURL,
			BestScore:     best,
			TotalAttempts: len(attempts),
			AvgScore:      avg,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].BestScore != entries[j].BestScore {
			return entries[i].BestScore > entries[j].BestScore
		}
		return strings.Compare(entries[i].UserID.String(), entries[j].UserID.String()) < 0
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}
