package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// Handler methods for routerHandlers.
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.GetSnapshot())
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.GetStats()
	writeJSON(w, map[string]interface{}{
		"monsters":     stats.Monsters,
		"waypoints":    stats.Waypoints,
		"towers":       stats.Towers,
		"bullets":      stats.Bullets,
		"kills":        stats.Kills,
		"playerHealth": stats.PlayerHealth,
		"gameOver":     stats.GameOver,
		"state":        stats.State,
		"tick":         stats.Tick,
		"eventLog":     h.engine.GetEventLogStats(),
	})
}

// handleSpawnMonster spawns one monster, or a batch when count is given.
func (h *routerHandlers) handleSpawnMonster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Count int `json:"count"`
	}

	// Empty body means a single spawn
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.Count = 1
	}
	if req.Count <= 0 {
		req.Count = 1
	}
	if req.Count > 200 {
		req.Count = 200 // Cap per request
	}

	spawned := 0
	for i := 0; i < req.Count; i++ {
		if h.engine.SpawnMonster() {
			spawned++
		}
	}

	if spawned == 0 {
		writeError(w, "Spawn rejected (limit reached or game over)", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"spawned": spawned,
	})
}

func (h *routerHandlers) handlePlaceWaypoint(w http.ResponseWriter, r *http.Request) {
	x, y, ok := decodePosition(w, r)
	if !ok {
		return
	}

	if !h.engine.PlaceWaypoint(x, y) {
		writeError(w, "Waypoint rejected (out of bounds, limit reached or game over)", http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handlePlaceTower(w http.ResponseWriter, r *http.Request) {
	x, y, ok := decodePosition(w, r)
	if !ok {
		return
	}

	if !h.engine.PlaceTower(x, y) {
		writeError(w, "Tower rejected (out of bounds, limit reached or game over)", http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		writeError(w, "Renderer not configured", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	png, err := h.renderer.RenderPNG(h.engine.GetSnapshot())
	RecordRender(time.Since(start))
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// decodePosition reads an {x, y} body and reports whether it was valid.
// Writes the error response itself on failure.
func decodePosition(w http.ResponseWriter, r *http.Request) (x, y float64, ok bool) {
	var req struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return 0, 0, false
	}
	if req.X == nil || req.Y == nil {
		writeError(w, "x and y are required", http.StatusBadRequest)
		return 0, 0, false
	}

	return *req.X, *req.Y, true
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
