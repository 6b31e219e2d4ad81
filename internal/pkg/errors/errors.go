package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAggregationFailed используется, когда чтение журнала попыток или
	// разрешение состава группы не удалось. Ошибка восстановимая: одиночные
	// запросы отдают ее вызывающему, стриминговые циклы пропускают тик
	// и повторяют попытку на следующем интервале.
	ErrAggregationFailed = errors.New("leaderboard aggregation failed")
)
