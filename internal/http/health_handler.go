package http

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	Status string    `json:"status"`
	Uptime float64   `json:"uptime"`
	Env    string    `json:"env"`
	Time   time.Time `json:"time"`
}

type HealthHandler struct {
	env     string
	started time.Time
	now     func() time.Time
}

func NewHealthHandler(env string) *HealthHandler {
	return &HealthHandler{
		env:     env,
		started: time.Now(),
		now:     time.Now,
	}
}

func (h *HealthHandler) Get(w http.ResponseWriter, _ *http.Request) {
	now := h.now()
	respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: now.Sub(h.started).Seconds(),
		Env:    h.env,
		Time:   now.UTC(),
	})
}
