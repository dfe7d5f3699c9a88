package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/liliang-cn/tempocog/pkg/cognition"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the engine over HTTP",
	Long: `Start an HTTP server around a single engine instance.

Endpoints:
  POST /experience   ingest a moment (JSON body), returns the snapshot
  GET  /state        full cognitive state
  GET  /emotion      rolling valence/arousal
  GET  /health       liveness check`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if env := os.Getenv("TEMPOCOG_LISTEN_ADDR"); env != "" && !cmd.Flags().Changed("addr") {
			addr = env
		}

		engine, err := openEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		logger := cognition.NewLogger(os.Stderr, cognition.LevelInfo)

		r := chi.NewRouter()
		r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})

		r.Post("/experience", func(w http.ResponseWriter, req *http.Request) {
			moment := cognition.DefaultMoment()
			if err := json.NewDecoder(req.Body).Decode(&moment); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, engine.LiveExperience(cognition.WithMoment(moment)))
		})

		r.Get("/state", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, engine.CognitiveState())
		})

		r.Get("/emotion", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, engine.EmotionState())
		})

		logger.Info("serving engine", "addr", addr, "session", engine.SessionID())
		return http.ListenAndServe(addr, r)
	},
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
}
