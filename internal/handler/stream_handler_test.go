package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/wonderlic-api/internal/handler/dto"
	"github.com/yourusername/wonderlic-api/internal/stream"
)

// stubSnapshotSource имитирует сервис лидерборда для стриминговых тестов
type stubSnapshotSource struct {
	entries []*dto.LeaderboardEntryDTO
}

func (s *stubSnapshotSource) GetGlobalLeaderboard(limit int) ([]*dto.LeaderboardEntryDTO, error) {
	return s.entries, nil
}

func (s *stubSnapshotSource) GetGroupLeaderboard(groupID uuid.UUID) ([]*dto.LeaderboardEntryDTO, error) {
	return s.entries, nil
}

func newStreamRouter(interval time.Duration) (*gin.Engine, *stream.Streamer) {
	gin.SetMode(gin.TestMode)

	source := &stubSnapshotSource{
		entries: []*dto.LeaderboardEntryDTO{
			{Rank: 1, UserID: uuid.New(), Name: "leader", BestScore: 42, TotalAttempts: 2, AvgScore: 40},
		},
	}
	streamer := stream.NewStreamer(source, interval, 100)
	streamHandler := NewStreamHandler(streamer)

	router := gin.New()
	router.GET("/api/sse/leaderboard", streamHandler.HandleSSE)
	router.GET("/api/stream/stats", streamHandler.GetStats)
	return router, streamer
}

// Клиент SSE получает первый снапшот сразу, второй — после интервала
func TestHandleSSE_StreamsSnapshots(t *testing.T) {
	router, _ := newStreamRouter(30 * time.Millisecond)
	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/sse/leaderboard", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	var events []string
	for scanner.Scan() && len(events) < 2 {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			events = append(events, strings.TrimPrefix(line, "data: "))
		}
	}
	require.Len(t, events, 2, "ожидались как минимум два снапшота")

	var snapshot stream.Snapshot
	require.NoError(t, json.Unmarshal([]byte(events[0]), &snapshot))
	assert.Equal(t, "global", snapshot.Scope)
	require.Len(t, snapshot.Entries, 1)
	assert.Equal(t, 42, snapshot.Entries[0].BestScore)
	assert.Equal(t, 1, snapshot.Entries[0].Rank)
}

// Невалидный group_id отклоняется до открытия потока
func TestHandleSSE_InvalidGroupID(t *testing.T) {
	router, _ := newStreamRouter(time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sse/leaderboard?group_id=not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// После разрыва соединения цикл подписчика завершается
func TestHandleSSE_ClientDisconnectEndsSubscription(t *testing.T) {
	router, streamer := newStreamRouter(20 * time.Millisecond)
	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/sse/leaderboard", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Дожидаемся первого снапшота, затем рвем соединение
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "data: ") {
			break
		}
	}
	cancel()

	require.Eventually(t, func() bool {
		return streamer.Metrics().ActiveSubscribers() == 0
	}, 2*time.Second, 20*time.Millisecond, "подписчик должен быть снят с учета после разрыва")
}

func TestGetStats_ReturnsMetrics(t *testing.T) {
	router, _ := newStreamRouter(time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stream/stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Contains(t, stats, "active_subscribers")
	assert.Contains(t, stats, "snapshots_pushed")
	assert.Contains(t, stats, "failed_ticks")
	assert.Contains(t, stats, "uptime_seconds")
}
