package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/wonderlic-api/internal/stream"
)

// StreamHandler обрабатывает долгоживущие push-соединения лидерборда
type StreamHandler struct {
	streamer *stream.Streamer
}

// NewStreamHandler создает новый обработчик стриминга
func NewStreamHandler(streamer *stream.Streamer) *StreamHandler {
	return &StreamHandler{
		streamer: streamer,
	}
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Пустой Origin — не браузерный клиент (curl, мобильное приложение),
		// такие подключения разрешаем
		if origin == "" {
			return true
		}

		// Список разрешенных origin (синхронизирован с CORS в main.go)
		allowedOrigins := []string{
			"https://wonderlictest.vercel.app",
			"http://localhost:3000",
			"http://localhost:5173",
		}

		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}

		log.Printf("WebSocket: rejected unauthorized origin: %s", origin)
		return false
	},
	EnableCompression: true,
}

// HandleSSE обрабатывает подписку на снапшоты лидерборда по Server-Sent Events.
// Необязательный параметр group_id переключает область видимости на группу;
// без него подписчик получает глобальный лидерборд.
func (h *StreamHandler) HandleSSE(c *gin.Context) {
	scope, ok := h.scopeFromQuery(c)
	if !ok {
		return
	}

	// Контекст запроса отменяется при отключении клиента,
	// вместе с ним завершается и цикл подписчика
	if err := h.streamer.ServeSSE(c.Request.Context(), c.Writer, scope); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming unsupported"})
		return
	}
}

// HandleWebSocket обрабатывает подписку на снапшоты лидерборда по WebSocket
func (h *StreamHandler) HandleWebSocket(c *gin.Context) {
	scope, ok := h.scopeFromQuery(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[StreamHandler] Ошибка апгрейда WebSocket: %v", err)
		return
	}

	h.streamer.ServeWS(c.Request.Context(), conn, scope)
}

// GetStats возвращает метрики раздатчика снапшотов
func (h *StreamHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.streamer.Metrics().Stats())
}

// scopeFromQuery разбирает необязательный параметр group_id
func (h *StreamHandler) scopeFromQuery(c *gin.Context) (stream.Scope, bool) {
	groupIDStr := c.Query("group_id")
	if groupIDStr == "" {
		return stream.Scope{}, true
	}

	groupID, err := uuid.Parse(groupIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group_id"})
		return stream.Scope{}, false
	}

	return stream.Scope{GroupID: &groupID}, true
}
