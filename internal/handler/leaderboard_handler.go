package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/wonderlic-api/internal/handler/dto"
	apperrors "github.com/yourusername/wonderlic-api/internal/pkg/errors"
	"github.com/yourusername/wonderlic-api/internal/service"
)

// LeaderboardHandler обрабатывает запросы лидерборда и рангов
type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

// NewLeaderboardHandler создает новый обработчик лидерборда
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// GetGlobalLeaderboard обрабатывает запрос глобального лидерборда
func (h *LeaderboardHandler) GetGlobalLeaderboard(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "100")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = 100
	} else if limit > 100 {
		limit = 100 // Максимальный лимит
	}

	leaderboard, err := h.leaderboardService.GetGlobalLeaderboard(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": leaderboard})
}

// GetGroupLeaderboard обрабатывает запрос лидерборда группы.
// Пустая группа дает пустой список, не ошибку.
func (h *LeaderboardHandler) GetGroupLeaderboard(c *gin.Context) {
	groupID := c.MustGet("groupID").(uuid.UUID)

	leaderboard, err := h.leaderboardService.GetGroupLeaderboard(groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting group leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"group_id": groupID, "entries": leaderboard})
}

// GetUserRank обрабатывает запрос глобального ранга пользователя.
// Ранг 0 означает отсутствие попыток.
func (h *LeaderboardHandler) GetUserRank(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	rank, err := h.leaderboardService.GetUserRank(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting user rank"})
		return
	}

	c.JSON(http.StatusOK, dto.UserRankResponse{UserID: userID, Rank: rank})
}

// GetMyRank возвращает глобальный ранг аутентифицированного пользователя
func (h *LeaderboardHandler) GetMyRank(c *gin.Context) {
	userID := c.MustGet("authUserID").(uuid.UUID)

	rank, err := h.leaderboardService.GetUserRank(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting user rank"})
		return
	}

	c.JSON(http.StatusOK, dto.UserRankResponse{UserID: userID, Rank: rank})
}

// GetUserAttempts возвращает историю попыток пользователя
func (h *LeaderboardHandler) GetUserAttempts(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	attempts, err := h.leaderboardService.GetUserAttempts(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error getting attempts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "attempts": attempts})
}
