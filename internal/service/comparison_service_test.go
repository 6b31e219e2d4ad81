package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/wonderlic-api/internal/domain/entity"
)

// stubPlayerRepo отдает фиксированный эталонный набор
type stubPlayerRepo struct {
	players []entity.NFLPlayer
	err     error
}

func (s *stubPlayerRepo) GetAll() ([]entity.NFLPlayer, error) {
	return s.players, s.err
}

func (s *stubPlayerRepo) Upsert(player *entity.NFLPlayer) error {
	return nil
}

func referencePlayers(scores ...int) []entity.NFLPlayer {
	players := make([]entity.NFLPlayer, 0, len(scores))
	for i, score := range scores {
		players = append(players, entity.NFLPlayer{
			ID:             uuid.New(),
			Name:           "Player " + string(rune('A'+i)),
			Position:       "QB",
			Team:           "Team " + string(rune('A'+i)),
			WonderlicScore: score,
			DraftYear:      2000 + i,
		})
	}
	return players
}

func newComparison(t *testing.T, scores ...int) *ComparisonService {
	t.Helper()
	service, err := NewComparisonService(&stubPlayerRepo{players: referencePlayers(scores...)})
	require.NoError(t, err)
	return service
}

// Набор {16, 24, 28, 35}, счет 26: точного совпадения нет, ближайший
// в окне ±2 есть, сосед выше — 28, сосед ниже — 24
func TestCompare_NoExactMatchWithNeighbors(t *testing.T) {
	service := newComparison(t, 16, 24, 28, 35)

	result := service.Compare(26)

	assert.Equal(t, 26, result.Score)
	assert.Nil(t, result.ExactMatch)
	require.NotNil(t, result.ClosestMatch)
	require.NotNil(t, result.HigherScore)
	require.NotNil(t, result.LowerScore)
	assert.Equal(t, 28, result.HigherScore.WonderlicScore)
	assert.Equal(t, 24, result.LowerScore.WonderlicScore)
}

// При точном совпадении ближайшее не заполняется
func TestCompare_ExactMatchSuppressesClosest(t *testing.T) {
	service := newComparison(t, 16, 24, 28, 35)

	result := service.Compare(28)

	require.NotNil(t, result.ExactMatch)
	assert.Equal(t, 28, result.ExactMatch.WonderlicScore)
	assert.Nil(t, result.ClosestMatch)
	require.NotNil(t, result.HigherScore)
	assert.Equal(t, 35, result.HigherScore.WonderlicScore)
	require.NotNil(t, result.LowerScore)
	assert.Equal(t, 24, result.LowerScore.WonderlicScore)
}

// Ближайшим считается игрок с минимальным расстоянием в окне ±2
func TestCompare_ClosestMatchPicksMinimalDistance(t *testing.T) {
	service := newComparison(t, 20, 27)

	result := service.Compare(25)

	assert.Nil(t, result.ExactMatch)
	// 27 на расстоянии 2 попадает в окно, 20 на расстоянии 5 — нет
	require.NotNil(t, result.ClosestMatch)
	assert.Equal(t, 27, result.ClosestMatch.WonderlicScore)
}

// Игроки дальше чем на 2 не считаются ближайшим совпадением
func TestCompare_ClosestMatchRespectsWindow(t *testing.T) {
	service := newComparison(t, 16, 24, 35)

	result := service.Compare(30)

	assert.Nil(t, result.ExactMatch)
	assert.Nil(t, result.ClosestMatch)
	require.NotNil(t, result.HigherScore)
	assert.Equal(t, 35, result.HigherScore.WonderlicScore)
	require.NotNil(t, result.LowerScore)
	assert.Equal(t, 24, result.LowerScore.WonderlicScore)
}

// При равном расстоянии побеждает игрок с меньшим счетом
func TestCompare_ClosestMatchTieGoesToLowerScore(t *testing.T) {
	service := newComparison(t, 23, 27)

	result := service.Compare(25)

	require.NotNil(t, result.ClosestMatch)
	assert.Equal(t, 23, result.ClosestMatch.WonderlicScore)
}

// Счет выше всего набора: нет точного, нет соседа выше
func TestCompare_ScoreAboveRange(t *testing.T) {
	service := newComparison(t, 16, 24, 28)

	result := service.Compare(50)

	assert.Nil(t, result.ExactMatch)
	assert.Nil(t, result.ClosestMatch)
	assert.Nil(t, result.HigherScore)
	require.NotNil(t, result.LowerScore)
	assert.Equal(t, 28, result.LowerScore.WonderlicScore)
}

// Счет ниже всего набора: нет точного, нет соседа ниже
func TestCompare_ScoreBelowRange(t *testing.T) {
	service := newComparison(t, 16, 24, 28)

	result := service.Compare(5)

	assert.Nil(t, result.ExactMatch)
	assert.Nil(t, result.ClosestMatch)
	require.NotNil(t, result.HigherScore)
	assert.Equal(t, 16, result.HigherScore.WonderlicScore)
	assert.Nil(t, result.LowerScore)
}

// Пустой набор не является ошибкой: все поля пусты
func TestCompare_EmptyReferenceSet(t *testing.T) {
	service, err := NewComparisonService(&stubPlayerRepo{})
	require.NoError(t, err)

	result := service.Compare(25)

	assert.Equal(t, 25, result.Score)
	assert.Nil(t, result.ExactMatch)
	assert.Nil(t, result.ClosestMatch)
	assert.Nil(t, result.HigherScore)
	assert.Nil(t, result.LowerScore)
}

// Ошибка загрузки набора пробрасывается из конструктора
func TestNewComparisonService_LoadFailure(t *testing.T) {
	_, err := NewComparisonService(&stubPlayerRepo{err: errors.New("connection refused")})
	require.Error(t, err)
}

// PlayerMatch предпочитает точное совпадение ближайшему
func TestPlayerMatch_PrefersExact(t *testing.T) {
	service := newComparison(t, 24, 25, 28)

	match := service.PlayerMatch(25)
	require.NotNil(t, match)
	assert.Equal(t, 25, match.WonderlicScore)
}

// PlayerMatch отдает ближайшее совпадение при отсутствии точного
func TestPlayerMatch_FallsBackToClosest(t *testing.T) {
	service := newComparison(t, 16, 24, 28)

	match := service.PlayerMatch(26)
	require.NotNil(t, match)
	assert.Equal(t, 24, match.WonderlicScore)

	assert.Nil(t, service.PlayerMatch(40))
}
