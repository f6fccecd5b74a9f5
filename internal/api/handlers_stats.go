package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ttl":   s.cfg.CacheTTL.String(),
		"cache": s.cache.stats(),
	})
}
