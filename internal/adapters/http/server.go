package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/spiritual/internal/logging"
	"github.com/aretw0/spiritual/pkg/catalog"
	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/persistence"
	"github.com/aretw0/spiritual/pkg/wire"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes profiles and the catalog over HTTP.
type Server struct {
	Profiles *persistence.Profiles
	Catalog  *catalog.Catalog
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewHandler creates the HTTP handler. A nil catalog serves no catalog
// routes; a nil gatherer serves no /metrics.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/profiles", func(r chi.Router) {
		r.Get("/", s.listProfiles)
		r.Post("/", s.createProfile)
		r.Get("/{player}", s.getProfile)
		r.Delete("/{player}", s.deleteProfile)
		r.Put("/{player}/achievements/{achievement}", s.unlockAchievement)
		r.Put("/{player}/skills/{skill}", s.setSkill)
	})

	if s.Catalog != nil {
		r.Get("/catalog", s.catalogIndex)
		r.Get("/catalog/{kind}/{name}", s.catalogEntry)
		r.Get("/tilemaps/{name}", s.tilemap)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProfileNotFound), errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrProfileExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidPlayerName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.Logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	}
	http.Error(w, err.Error(), status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "error", err)
	}
}

// writeWire writes a wire value keeping mapping order.
func (s *Server) writeWire(w http.ResponseWriter, status int, v any) {
	data, err := wire.MarshalJSON(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	names, err := s.Profiles.Store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, names)
}

type createProfileRequest struct {
	PlayerName string `json:"player_name"`
}

func (s *Server) createProfile(w http.ResponseWriter, r *http.Request) {
	var body createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	profile, err := s.Profiles.Create(r.Context(), body.PlayerName)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeWire(w, http.StatusCreated, profile.Dump())
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.Profiles.Store.Load(r.Context(), chi.URLParam(r, "player"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeWire(w, http.StatusOK, profile.Dump())
}

func (s *Server) deleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.Profiles.Store.Delete(r.Context(), chi.URLParam(r, "player")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) unlockAchievement(w http.ResponseWriter, r *http.Request) {
	achievement := chi.URLParam(r, "achievement")
	profile, err := s.Profiles.Update(r.Context(), chi.URLParam(r, "player"), func(p *domain.Profile) error {
		p.SetAchievement(achievement, true)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeWire(w, http.StatusOK, profile.Dump())
}

type setSkillRequest struct {
	Level *float64 `json:"level"`
}

func (s *Server) setSkill(w http.ResponseWriter, r *http.Request) {
	var body setSkillRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Level == nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	skill := chi.URLParam(r, "skill")
	profile, err := s.Profiles.Update(r.Context(), chi.URLParam(r, "player"), func(p *domain.Profile) error {
		p.SetSkill(skill, *body.Level)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeWire(w, http.StatusOK, profile.Dump())
}

func (s *Server) catalogIndex(w http.ResponseWriter, r *http.Request) {
	index := make(map[string][]string)
	for _, kind := range domain.Kinds() {
		index[string(kind)] = s.Catalog.Names(kind)
	}
	s.writeJSON(w, http.StatusOK, index)
}

func (s *Server) catalogEntry(w http.ResponseWriter, r *http.Request) {
	kind := domain.Kind(chi.URLParam(r, "kind"))
	if _, ok := kind.Record(); !ok {
		http.Error(w, "unknown kind", http.StatusNotFound)
		return
	}
	inst, err := s.Catalog.Get(kind, chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeWire(w, http.StatusOK, inst.Dump())
}

func (s *Server) tilemap(w http.ResponseWriter, r *http.Request) {
	tm, err := s.Catalog.Tilemap(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeWire(w, http.StatusOK, tm.Instance().Dump())
}
