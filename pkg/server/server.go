package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/your-org/bdd-html-report/pkg/logger"
	"github.com/your-org/bdd-html-report/pkg/storage"
)

// Config holds server configuration
type Config struct {
	Host      string
	Port      int
	ReportDir string
}

// Server serves a generated report directory plus a small JSON API over
// the run history.
type Server struct {
	config *Config
	router *mux.Router
}

// NewServer creates a new report server
func NewServer(cfg *Config) *Server {
	s := &Server{
		config: cfg,
		router: mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	logger.Infof("Serving report from %s at http://%s", s.config.ReportDir, addr)

	return http.ListenAndServe(addr, s.router)
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/runs", s.handleListRuns).Methods("GET")
	api.HandleFunc("/features/{name}", s.handleFeatureHistory).Methods("GET")

	fs := http.FileServer(http.Dir(s.config.ReportDir))
	s.router.PathPrefix("/").Handler(fs)
}

// openHistory opens the history database next to the report directory,
// where the generator writes it.
func (s *Server) openHistory() (*storage.Database, error) {
	return storage.Open(filepath.Dir(s.config.ReportDir))
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	db, err := s.openHistory()
	if err != nil {
		http.Error(w, "history unavailable", http.StatusServiceUnavailable)
		return
	}
	defer db.Close()

	runs, err := db.RecentRuns(50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{"runs": runs})
}

func (s *Server) handleFeatureHistory(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	db, err := s.openHistory()
	if err != nil {
		http.Error(w, "history unavailable", http.StatusServiceUnavailable)
		return
	}
	defer db.Close()

	records, err := db.FeatureRuns(name, 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{"feature": name, "runs": records})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}
