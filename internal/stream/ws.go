package stream

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Время, которое разрешено писать сообщение подписчику
	writeWait = 10 * time.Second

	// Время ожидания pong-ответа от подписчика
	pongWait = 60 * time.Second

	// Периодичность отправки ping-сообщений подписчику
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер входящего сообщения: подписчик ничего
	// содержательного не присылает
	maxMessageSize = 512
)

// ServeWS обслуживает одного WebSocket-подписчика до отключения.
// Снапшоты пишет цикл Run; отдельные горутины читают соединение
// (для обнаружения разрыва) и шлют ping. Запись сериализуется мьютексом.
func (s *Streamer) ServeWS(ctx context.Context, conn *websocket.Conn, scope Scope) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer conn.Close()

	var writeMu sync.Mutex

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Читатель: единственная задача — заметить закрытие со стороны клиента
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	// Пинги поддерживают соединение живым между тиками
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				writeMu.Lock()
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				err := conn.WriteMessage(websocket.PingMessage, nil)
				writeMu.Unlock()
				if err != nil {
					cancel()
					return
				}
			}
		}
	}()

	s.Run(ctx, scope, func(snapshot Snapshot) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(snapshot)
	})

	// Корректно закрываем соединение, если инициатор завершения — сервер
	writeMu.Lock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	writeMu.Unlock()
}
