package stream

import (
	"sync"
	"time"
)

// Metrics представляет агрегированные метрики раздатчика снапшотов
type Metrics struct {
	totalSubscribers  int64     // Общее количество подписок за все время
	activeSubscribers int64     // Текущее количество активных подписчиков
	snapshotsPushed   int64     // Общее количество отправленных снапшотов
	failedTicks       int64     // Общее количество пропущенных тиков
	startTime         time.Time // Время запуска раздатчика

	// Мьютекс для безопасного обновления метрик
	mu sync.RWMutex
}

// NewMetrics создает новый экземпляр метрик раздатчика
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// SubscriberConnected учитывает новую подписку
func (m *Metrics) SubscriberConnected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalSubscribers++
	m.activeSubscribers++
}

// SubscriberDisconnected учитывает завершение подписки
func (m *Metrics) SubscriberDisconnected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeSubscribers > 0 {
		m.activeSubscribers--
	}
}

// SnapshotPushed увеличивает счетчик отправленных снапшотов
func (m *Metrics) SnapshotPushed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshotsPushed++
}

// TickFailed увеличивает счетчик пропущенных из-за ошибки агрегации тиков
func (m *Metrics) TickFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failedTicks++
}

// ActiveSubscribers возвращает текущее количество активных подписчиков
func (m *Metrics) ActiveSubscribers() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeSubscribers
}

// Stats возвращает снимок всех метрик для отдачи наружу
func (m *Metrics) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]interface{}{
		"total_subscribers":  m.totalSubscribers,
		"active_subscribers": m.activeSubscribers,
		"snapshots_pushed":   m.snapshotsPushed,
		"failed_ticks":       m.failedTicks,
		"uptime_seconds":     int64(time.Since(m.startTime).Seconds()),
	}
}
