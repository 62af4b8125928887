// Package api exposes the controller's command/query surface over HTTP
// for the presentation layer.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/muhsinh/smartbrain/internal/config"
	"github.com/muhsinh/smartbrain/internal/controller"
)

type Server struct {
	cfg  *config.AppConfig
	lg   *slog.Logger
	ctrl *controller.Controller
	http *http.Server
}

func NewServer(cfg *config.AppConfig, lg *slog.Logger, ctrl *controller.Controller) *Server {
	s := &Server{cfg: cfg, lg: lg.With(slog.String("component", "api")), ctrl: ctrl}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.getHealth)
	mux.HandleFunc("/status", s.getStatus)
	mux.HandleFunc("/snapshot", s.getSnapshot)
	mux.HandleFunc("/connect", s.command(ctrl.Connect))
	mux.HandleFunc("/disconnect", s.command(ctrl.Disconnect))
	mux.HandleFunc("/session/start", s.command(ctrl.StartSession))
	mux.HandleFunc("/session/stop", s.command(ctrl.StopSession))

	s.http = &http.Server{
		Addr:    cfg.HTTPBind,
		Handler: logging(s.lg, mux),
	}
	return s
}

func (s *Server) Start() error {
	s.lg.Info("http server starting", "bind", s.cfg.HTTPBind)
	return s.http.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.lg.Info("http server stopping")
	return s.http.Shutdown(ctx)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.ctrl.Stats())
}

func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.ctrl.Snapshot())
}

// command adapts a controller command to a POST handler. Invalid
// transitions map to 409 so the UI can explain why the action is blocked.
func (s *Server) command(fn func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := fn(); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, controller.ErrInvalidTransition) {
				status = http.StatusConflict
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, s.ctrl.Snapshot())
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func logging(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		log.Info("request", slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.String("remote", r.RemoteAddr))
	})
}
