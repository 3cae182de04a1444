// Package server exposes the pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sahayak-ai/sahayak/core"
	"github.com/sahayak-ai/sahayak/memory"
)

// TurnRunner is the slice of the pipeline the HTTP layer needs.
type TurnRunner interface {
	RunTurn(ctx context.Context, turn core.TurnContext, question string) (string, error)
	Profile(ctx context.Context, userID string) (*memory.StudentProfile, error)
}

// Server handles the chat and memory endpoints.
type Server struct {
	runner TurnRunner
	router chi.Router
}

func New(runner TurnRunner) *Server {
	s := &Server{runner: runner}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	r.Post("/chat", s.handleChat)
	r.Get("/memory/{userID}", s.handleMemory)
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type chatRequest struct {
	Query    string `json:"query"`
	UserID   string `json:"user_id"`
	ThreadID string `json:"thread_id"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Query == "" || req.UserID == "" || req.ThreadID == "" {
		badRequest(w, "query, user_id and thread_id are required")
		return
	}

	turn := core.TurnContext{UserID: req.UserID, SessionID: req.ThreadID}
	answer, err := s.runner.RunTurn(r.Context(), turn, req.Query)
	if err != nil {
		log.Printf("[SERVER] chat user=%s thread=%s failed: %v", req.UserID, req.ThreadID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: answer})
}

type memoryResponse struct {
	UserID string                 `json:"user_id"`
	Memory *memory.StudentProfile `json:"memory"`
}

func (s *Server) handleMemory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		badRequest(w, "user ID is required")
		return
	}

	profile, err := s.runner.Profile(r.Context(), userID)
	if err != nil {
		log.Printf("[SERVER] memory user=%s failed: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// Memory is null for users without a stored profile.
	writeJSON(w, http.StatusOK, memoryResponse{UserID: userID, Memory: profile})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"service": "sahayak", "status": "running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[SERVER] encode response: %v", err)
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
