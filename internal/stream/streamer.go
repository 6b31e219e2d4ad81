package stream

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/wonderlic-api/internal/handler/dto"
)

// SnapshotSource — источник данных для снапшотов лидерборда.
// Реализуется сервисом лидерборда; безопасен для конкурентных вызовов.
type SnapshotSource interface {
	GetGlobalLeaderboard(limit int) ([]*dto.LeaderboardEntryDTO, error)
	GetGroupLeaderboard(groupID uuid.UUID) ([]*dto.LeaderboardEntryDTO, error)
}

// Scope определяет, чей лидерборд получает подписчик
type Scope struct {
	// GroupID задает группу; nil — глобальный лидерборд
	GroupID *uuid.UUID
}

// String возвращает метку области видимости для снапшотов и логов
func (s Scope) String() string {
	if s.GroupID == nil {
		return "global"
	}
	return "group:" + s.GroupID.String()
}

// Snapshot — один полный снапшот лидерборда, отправляемый подписчику.
// Каждый тик передает полный список без диффов.
type Snapshot struct {
	Scope       string                     `json:"scope"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Entries     []*dto.LeaderboardEntryDTO `json:"entries"`
}

// PushFunc доставляет снапшот одному подписчику. Вызывается последовательно
// из горутины подписчика. Ошибка означает разрыв транспорта и завершает цикл.
type PushFunc func(Snapshot) error

// Streamer раздает периодические снапшоты лидерборда подписчикам.
// Каждый подписчик получает независимый цикл пересчета и отправки:
// общего кеша между подписчиками нет, тики разных соединений
// не синхронизированы.
type Streamer struct {
	source   SnapshotSource
	interval time.Duration
	limit    int
	metrics  *Metrics
}

// NewStreamer создает новый раздатчик снапшотов
func NewStreamer(source SnapshotSource, interval time.Duration, limit int) *Streamer {
	return &Streamer{
		source:   source,
		interval: interval,
		limit:    limit,
		metrics:  NewMetrics(),
	}
}

// Metrics возвращает метрики раздатчика
func (s *Streamer) Metrics() *Metrics {
	return s.metrics
}

// Interval возвращает период отправки снапшотов
func (s *Streamer) Interval() time.Duration {
	return s.interval
}

// Run обслуживает одного подписчика до отмены контекста или ошибки доставки.
// Сразу после подписки отправляется первый снапшот, затем по одному на каждый
// тик. Ошибка агрегации на тике логируется и пропускается — соединение
// из-за нее никогда не рвется. Порядок доставки внутри соединения совпадает
// с порядком тиков.
func (s *Streamer) Run(ctx context.Context, scope Scope, push PushFunc) {
	s.metrics.SubscriberConnected()
	defer s.metrics.SubscriberDisconnected()

	// Первый снапшот — немедленно, до входа в периодический цикл
	if err := s.tick(scope, push); err != nil {
		log.Printf("[Streamer] Подписчик %s отключен при первой отправке: %v", scope, err)
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.tick(scope, push); err != nil {
				log.Printf("[Streamer] Подписчик %s отключен: %v", scope, err)
				return
			}
		}
	}
}

// tick пересчитывает лидерборд и отправляет снапшот.
// Возвращает ошибку только при сбое доставки; сбой агрегации — пропуск тика.
func (s *Streamer) tick(scope Scope, push PushFunc) error {
	var (
		entries []*dto.LeaderboardEntryDTO
		err     error
	)
	if scope.GroupID != nil {
		entries, err = s.source.GetGroupLeaderboard(*scope.GroupID)
	} else {
		entries, err = s.source.GetGlobalLeaderboard(s.limit)
	}
	if err != nil {
		// Пропускаем тик: следующая попытка на очередном интервале
		log.Printf("[Streamer] Ошибка агрегации для %s, тик пропущен: %v", scope, err)
		s.metrics.TickFailed()
		return nil
	}

	snapshot := Snapshot{
		Scope:       scope.String(),
		GeneratedAt: time.Now(),
		Entries:     entries,
	}

	if err := push(snapshot); err != nil {
		return err
	}

	s.metrics.SnapshotPushed()
	return nil
}
