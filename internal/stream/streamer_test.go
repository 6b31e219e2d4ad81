package stream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/wonderlic-api/internal/handler/dto"
)

// fakeSource имитирует сервис лидерборда. Счетчик вызовов позволяет
// проверить, что снапшоты пересчитываются на каждом тике, а не кешируются.
type fakeSource struct {
	mu          sync.Mutex
	globalCalls int
	groupCalls  int
	lastGroupID uuid.UUID
	failUntil   int // вызовы с номерами <= failUntil завершаются ошибкой
}

func (f *fakeSource) GetGlobalLeaderboard(limit int) ([]*dto.LeaderboardEntryDTO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.globalCalls++
	if f.globalCalls <= f.failUntil {
		return nil, errors.New("aggregation failed")
	}
	return []*dto.LeaderboardEntryDTO{
		{Rank: 1, UserID: uuid.New(), Name: "leader", BestScore: 42, TotalAttempts: f.globalCalls},
	}, nil
}

func (f *fakeSource) GetGroupLeaderboard(groupID uuid.UUID) ([]*dto.LeaderboardEntryDTO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groupCalls++
	f.lastGroupID = groupID
	return []*dto.LeaderboardEntryDTO{
		{Rank: 1, UserID: uuid.New(), Name: "member", BestScore: 30},
	}, nil
}

func (f *fakeSource) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.globalCalls, f.groupCalls
}

func (f *fakeSource) groupID() uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastGroupID
}

// collectPush складывает снапшоты в канал
func collectPush(ch chan<- Snapshot) PushFunc {
	return func(snapshot Snapshot) error {
		ch <- snapshot
		return nil
	}
}

func waitSnapshot(t *testing.T, ch <-chan Snapshot, timeout time.Duration) Snapshot {
	t.Helper()
	select {
	case snapshot := <-ch:
		return snapshot
	case <-time.After(timeout):
		t.Fatal("снапшот не получен вовремя")
		return Snapshot{}
	}
}

// Первый снапшот приходит сразу после подписки, не дожидаясь первого тика
func TestRun_PushesInitialSnapshotImmediately(t *testing.T) {
	source := &fakeSource{}
	streamer := NewStreamer(source, time.Hour, 100)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots := make(chan Snapshot, 1)
	done := make(chan struct{})
	go func() {
		streamer.Run(ctx, Scope{}, collectPush(snapshots))
		close(done)
	}()

	snapshot := waitSnapshot(t, snapshots, time.Second)
	assert.Equal(t, "global", snapshot.Scope)
	require.Len(t, snapshot.Entries, 1)
	assert.Equal(t, 42, snapshot.Entries[0].BestScore)
	assert.False(t, snapshot.GeneratedAt.IsZero())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run не завершился после отмены контекста")
	}
}

// Каждый тик дает свежий пересчет, после отмены контекста отправки прекращаются
func TestRun_RecomputesEachTickAndStopsOnCancel(t *testing.T) {
	source := &fakeSource{}
	streamer := NewStreamer(source, 20*time.Millisecond, 100)

	ctx, cancel := context.WithCancel(context.Background())

	snapshots := make(chan Snapshot, 16)
	done := make(chan struct{})
	go func() {
		streamer.Run(ctx, Scope{}, collectPush(snapshots))
		close(done)
	}()

	first := waitSnapshot(t, snapshots, time.Second)
	second := waitSnapshot(t, snapshots, time.Second)
	third := waitSnapshot(t, snapshots, time.Second)

	// TotalAttempts у fakeSource равен номеру пересчета
	assert.Equal(t, 1, first.Entries[0].TotalAttempts)
	assert.Equal(t, 2, second.Entries[0].TotalAttempts)
	assert.Equal(t, 3, third.Entries[0].TotalAttempts)
	assert.True(t, !second.GeneratedAt.Before(first.GeneratedAt))

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run не завершился после отмены контекста")
	}

	// Дренируем то, что успело попасть в буфер до остановки
	for len(snapshots) > 0 {
		<-snapshots
	}
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, snapshots, "после отмены контекста снапшоты приходить не должны")
}

// Ошибка агрегации пропускает тик, но не разрывает соединение
func TestRun_AggregationFailureSkipsTick(t *testing.T) {
	source := &fakeSource{failUntil: 2}
	streamer := NewStreamer(source, 15*time.Millisecond, 100)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots := make(chan Snapshot, 16)
	go streamer.Run(ctx, Scope{}, collectPush(snapshots))

	// Первые два пересчета падают, третий проходит
	snapshot := waitSnapshot(t, snapshots, time.Second)
	assert.Equal(t, 3, snapshot.Entries[0].TotalAttempts)

	stats := streamer.Metrics().Stats()
	assert.GreaterOrEqual(t, stats["failed_ticks"].(int64), int64(2))
}

// Ошибка доставки завершает цикл подписчика
func TestRun_DeliveryErrorEndsRun(t *testing.T) {
	source := &fakeSource{}
	streamer := NewStreamer(source, 10*time.Millisecond, 100)

	pushes := 0
	push := func(Snapshot) error {
		pushes++
		if pushes >= 2 {
			return errors.New("broken pipe")
		}
		return nil
	}

	done := make(chan struct{})
	go func() {
		streamer.Run(context.Background(), Scope{}, push)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run не завершился после ошибки доставки")
	}
	assert.Equal(t, 2, pushes)
	assert.Equal(t, int64(0), streamer.Metrics().ActiveSubscribers())
}

// Подписчик с областью группы получает лидерборд именно своей группы
func TestRun_GroupScopeUsesGroupLeaderboard(t *testing.T) {
	source := &fakeSource{}
	streamer := NewStreamer(source, time.Hour, 100)

	groupID := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots := make(chan Snapshot, 1)
	go streamer.Run(ctx, Scope{GroupID: &groupID}, collectPush(snapshots))

	snapshot := waitSnapshot(t, snapshots, time.Second)
	assert.Equal(t, "group:"+groupID.String(), snapshot.Scope)

	globalCalls, groupCalls := source.calls()
	assert.Equal(t, 0, globalCalls)
	assert.Equal(t, 1, groupCalls)
	assert.Equal(t, groupID, source.groupID())
}

// Метрики отражают подключения и отправленные снапшоты
func TestRun_MetricsTrackSubscribers(t *testing.T) {
	source := &fakeSource{}
	streamer := NewStreamer(source, time.Hour, 100)

	ctx, cancel := context.WithCancel(context.Background())
	snapshots := make(chan Snapshot, 1)
	done := make(chan struct{})
	go func() {
		streamer.Run(ctx, Scope{}, collectPush(snapshots))
		close(done)
	}()

	waitSnapshot(t, snapshots, time.Second)
	assert.Equal(t, int64(1), streamer.Metrics().ActiveSubscribers())

	cancel()
	<-done
	assert.Equal(t, int64(0), streamer.Metrics().ActiveSubscribers())

	stats := streamer.Metrics().Stats()
	assert.Equal(t, int64(1), stats["total_subscribers"].(int64))
	assert.GreaterOrEqual(t, stats["snapshots_pushed"].(int64), int64(1))
}

func TestScopeString(t *testing.T) {
	assert.Equal(t, "global", Scope{}.String())

	groupID := uuid.New()
	assert.Equal(t, "group:"+groupID.String(), Scope{GroupID: &groupID}.String())
}
