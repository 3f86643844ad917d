package catalog

import (
	"context"
	"encoding/json"
	"log"
)

// publishEvent notifies subscribers of a catalog mutation (best-effort).
func (s *Server) publishEvent(ctx context.Context, eventType string, payload any) {
	if s.rdb == nil {
		return
	}

	body := map[string]any{
		"type":    eventType,
		"payload": payload,
	}
	data, err := json.Marshal(body)
	if err != nil {
		log.Printf("media-service: marshal event: %v", err)
		return
	}

	if err := s.rdb.Publish(ctx, "broadcast", string(data)).Err(); err != nil {
		log.Printf("media-service: publish event: %v", err)
	}
}
