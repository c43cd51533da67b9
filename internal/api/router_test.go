package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tower-defense/internal/game"
)

// mockEngine implements EngineInterface with canned responses so router tests
// never spin up the game loop.
type mockEngine struct {
	snapshot     game.GameSnapshot
	stats        game.Stats
	spawnOK      bool
	waypointOK   bool
	towerOK      bool
	spawnCalls   int
	lastX, lastY float64
}

func (m *mockEngine) GetSnapshot() *game.GameSnapshot { return &m.snapshot }
func (m *mockEngine) GetStats() game.Stats            { return m.stats }
func (m *mockEngine) SpawnMonster() bool {
	m.spawnCalls++
	return m.spawnOK
}
func (m *mockEngine) PlaceWaypoint(x, y float64) bool {
	m.lastX, m.lastY = x, y
	return m.waypointOK
}
func (m *mockEngine) PlaceTower(x, y float64) bool {
	m.lastX, m.lastY = x, y
	return m.towerOK
}
func (m *mockEngine) GetEventLogStats() map[string]interface{} {
	return map[string]interface{}{"total": uint64(0)}
}

type mockRenderer struct {
	png []byte
	err error
}

func (m *mockRenderer) RenderPNG(snap *game.GameSnapshot) ([]byte, error) {
	return m.png, m.err
}

// newTestRouter builds a router with rate limits high enough to never trip
// during a test run.
func newTestRouter(engine EngineInterface, renderer RendererInterface) http.Handler {
	return NewRouter(RouterConfig{
		Engine:   engine,
		Renderer: renderer,
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 10000,
			Burst:             10000,
			CleanupInterval:   DefaultRateLimitConfig.CleanupInterval,
		},
		DisableLogging: true,
	})
}

// TestGetState verifies the state endpoint returns the engine snapshot
func TestGetState(t *testing.T) {
	engine := &mockEngine{
		snapshot: game.GameSnapshot{
			MonsterCount: 3,
			PlayerHealth: 85,
			Kills:        2,
		},
	}
	router := newTestRouter(engine, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/state", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	var snap game.GameSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.MonsterCount != 3 || snap.PlayerHealth != 85 || snap.Kills != 2 {
		t.Errorf("snapshot %+v, want counts from mock", snap)
	}
}

// TestGetStats verifies the stats endpoint shape
func TestGetStats(t *testing.T) {
	engine := &mockEngine{
		stats: game.Stats{Monsters: 5, Kills: 1, PlayerHealth: 90, State: "running"},
	}
	router := newTestRouter(engine, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["monsters"] != float64(5) {
		t.Errorf("monsters = %v, want 5", body["monsters"])
	}
	if body["state"] != "running" {
		t.Errorf("state = %v, want running", body["state"])
	}
	if _, ok := body["eventLog"]; !ok {
		t.Error("stats missing eventLog section")
	}
}

// TestSpawnMonster verifies single and batched spawns plus the rejection path
func TestSpawnMonster(t *testing.T) {
	t.Run("single spawn with empty body", func(t *testing.T) {
		engine := &mockEngine{spawnOK: true}
		router := newTestRouter(engine, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/monster/spawn", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, want 200", rec.Code)
		}
		if engine.spawnCalls != 1 {
			t.Errorf("spawn calls %d, want 1", engine.spawnCalls)
		}
	})

	t.Run("batched spawn", func(t *testing.T) {
		engine := &mockEngine{spawnOK: true}
		router := newTestRouter(engine, nil)

		body := bytes.NewBufferString(`{"count": 5}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/monster/spawn", body))

		if engine.spawnCalls != 5 {
			t.Errorf("spawn calls %d, want 5", engine.spawnCalls)
		}
		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp["spawned"] != float64(5) {
			t.Errorf("spawned = %v, want 5", resp["spawned"])
		}
	})

	t.Run("batch capped at 200", func(t *testing.T) {
		engine := &mockEngine{spawnOK: true}
		router := newTestRouter(engine, nil)

		body := bytes.NewBufferString(`{"count": 100000}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/monster/spawn", body))

		if engine.spawnCalls != 200 {
			t.Errorf("spawn calls %d, want capped 200", engine.spawnCalls)
		}
	})

	t.Run("rejected spawn returns 503", func(t *testing.T) {
		engine := &mockEngine{spawnOK: false}
		router := newTestRouter(engine, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/monster/spawn", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status %d, want 503", rec.Code)
		}
	})
}

// TestPlaceWaypoint verifies command decoding and rejection statuses
func TestPlaceWaypoint(t *testing.T) {
	t.Run("valid placement", func(t *testing.T) {
		engine := &mockEngine{waypointOK: true}
		router := newTestRouter(engine, nil)

		body := bytes.NewBufferString(`{"x": 400, "y": 300}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/waypoint", body))

		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, want 200", rec.Code)
		}
		if engine.lastX != 400 || engine.lastY != 300 {
			t.Errorf("engine got (%v,%v), want (400,300)", engine.lastX, engine.lastY)
		}
	})

	t.Run("missing coordinate", func(t *testing.T) {
		engine := &mockEngine{waypointOK: true}
		router := newTestRouter(engine, nil)

		body := bytes.NewBufferString(`{"x": 400}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/waypoint", body))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})

	t.Run("zero is a valid coordinate", func(t *testing.T) {
		engine := &mockEngine{waypointOK: true}
		router := newTestRouter(engine, nil)

		body := bytes.NewBufferString(`{"x": 0, "y": 0}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/waypoint", body))

		if rec.Code != http.StatusOK {
			t.Errorf("status %d, want 200 (zero coords are in bounds)", rec.Code)
		}
	})

	t.Run("engine rejection returns 422", func(t *testing.T) {
		engine := &mockEngine{waypointOK: false}
		router := newTestRouter(engine, nil)

		body := bytes.NewBufferString(`{"x": -5, "y": 300}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/waypoint", body))

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status %d, want 422", rec.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		engine := &mockEngine{waypointOK: true}
		router := newTestRouter(engine, nil)

		body := bytes.NewBufferString(`not json`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/waypoint", body))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})
}

// TestPlaceTower verifies the tower command mirrors the waypoint contract
func TestPlaceTower(t *testing.T) {
	engine := &mockEngine{towerOK: true}
	router := newTestRouter(engine, nil)

	body := bytes.NewBufferString(`{"x": 250, "y": 250}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/tower", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if engine.lastX != 250 || engine.lastY != 250 {
		t.Errorf("engine got (%v,%v), want (250,250)", engine.lastX, engine.lastY)
	}

	engine.towerOK = false
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/tower", bytes.NewBufferString(`{"x": 1, "y": 1}`)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status %d, want 422", rec.Code)
	}
}

// TestGetFrame verifies PNG delivery and the unconfigured-renderer guard
func TestGetFrame(t *testing.T) {
	t.Run("renders png", func(t *testing.T) {
		engine := &mockEngine{}
		renderer := &mockRenderer{png: []byte{0x89, 'P', 'N', 'G'}}
		router := newTestRouter(engine, renderer)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/frame.png", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, want 200", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("Content-Type %q, want image/png", ct)
		}
		if !bytes.Equal(rec.Body.Bytes(), renderer.png) {
			t.Error("body does not match rendered bytes")
		}
	})

	t.Run("no renderer returns 503", func(t *testing.T) {
		router := newTestRouter(&mockEngine{}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/frame.png", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status %d, want 503", rec.Code)
		}
	})

	t.Run("render failure returns 500", func(t *testing.T) {
		renderer := &mockRenderer{err: errors.New("encode failed")}
		router := newTestRouter(&mockEngine{}, renderer)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/frame.png", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status %d, want 500", rec.Code)
		}
	})
}

// TestRootRedirect verifies the root path points at the state endpoint
func TestRootRedirect(t *testing.T) {
	router := newTestRouter(&mockEngine{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/state" {
		t.Errorf("Location %q, want /api/state", loc)
	}
}
