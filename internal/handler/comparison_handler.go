package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/wonderlic-api/internal/service"
)

// ComparisonHandler обрабатывает запросы сравнения счета с эталонным набором
type ComparisonHandler struct {
	comparisonService *service.ComparisonService
}

// NewComparisonHandler создает новый обработчик сравнений
func NewComparisonHandler(comparisonService *service.ComparisonService) *ComparisonHandler {
	return &ComparisonHandler{
		comparisonService: comparisonService,
	}
}

// GetComparison обрабатывает запрос полного сравнения счета.
// Счет за пределами диапазона набора — не ошибка: поля результата
// просто останутся пустыми.
func (h *ComparisonHandler) GetComparison(c *gin.Context) {
	score, ok := h.scoreFromQuery(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.comparisonService.Compare(score))
}

// GetPlayerMatch обрабатывает запрос одиночного совпадения для бейджа
func (h *ComparisonHandler) GetPlayerMatch(c *gin.Context) {
	score, ok := h.scoreFromQuery(c)
	if !ok {
		return
	}

	match := h.comparisonService.PlayerMatch(score)
	if match == nil {
		c.JSON(http.StatusOK, gin.H{"score": score, "match": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"score": score, "match": match})
}

// scoreFromQuery извлекает целочисленный параметр score
func (h *ComparisonHandler) scoreFromQuery(c *gin.Context) (int, bool) {
	scoreStr := c.Query("score")
	if scoreStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'score' is required"})
		return 0, false
	}

	score, err := strconv.Atoi(scoreStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'score' must be an integer"})
		return 0, false
	}

	return score, true
}
