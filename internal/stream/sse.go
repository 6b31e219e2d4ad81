package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ServeSSE обслуживает одного подписчика по Server-Sent Events до разрыва
// соединения или отмены контекста. Каждое событие несет полный снапшот
// лидерборда в формате "data: <json>\n\n".
func (s *Streamer) ServeSSE(ctx context.Context, w http.ResponseWriter, scope Scope) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported: response writer is not a flusher")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	s.Run(ctx, scope, func(snapshot Snapshot) error {
		data, err := json.Marshal(snapshot)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})

	return nil
}
