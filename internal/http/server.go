package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/domain"
	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/nutrient"
	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/solver"
	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/storage"
)

type Server struct {
	Calc   *nutrient.Calculator
	Solver *solver.Solver
	Store  *storage.Store
	Log    *slog.Logger
}

func NewServer(calc *nutrient.Calculator, solv *solver.Solver, store *storage.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{Calc: calc, Solver: solv, Store: store, Log: log}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/demo", s.handleDemo)

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(openapiYAML)
	})
	r.Mount("/swagger", httpSwagger.Handler(
		httpSwagger.URL("/api/openapi.yaml"),
	))

	r.Route("/api", func(api chi.Router) {
		api.Post("/compute", s.handleCompute)
		api.Post("/suggest", s.handleSuggest)

		api.Get("/targets", s.handleTargets)

		api.Route("/products", func(pr chi.Router) {
			pr.Get("/", s.handleProductsList)
			pr.Post("/", s.handleProductCreate)
			pr.Get("/{name}", s.handleProductGet)
			pr.Delete("/{name}", s.handleProductDelete)
		})

		api.Route("/recipes", func(rr chi.Router) {
			rr.Get("/", s.handleRecipesList)
			rr.Post("/", s.handleRecipeCreate)
			rr.Get("/{id}", s.handleRecipeGet)
			rr.Delete("/{id}", s.handleRecipeDelete)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type ComputeRequest struct {
	Doses []domain.ProductDose `json:"doses"`
	Water domain.Water         `json:"water"`
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	catalog, err := s.Store.Catalog()
	if err != nil {
		s.serverError(w, "load catalog", err)
		return
	}

	// The engine assumes pre-validated input; clamping is this layer's job.
	doses := clampDoses(req.Doses)
	share := clampShare(req.Water.SharePercent)

	sol, err := s.Calc.Compute(catalog, doses, req.Water.Profile, share)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sol)
}

type SuggestRequest struct {
	Target *domain.Target `json:"target,omitempty"`
	Phase  string         `json:"phase,omitempty"`
	Brand  string         `json:"brand,omitempty"`
	Water  domain.Water   `json:"water"`
}

type SuggestResponse struct {
	Doses []domain.ProductDose `json:"doses"`
	Fit   solver.Fit           `json:"fit"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var target domain.Target
	switch {
	case req.Target != nil:
		target = *req.Target
	case req.Phase != "":
		t, ok := nutrient.PhaseTarget(req.Phase)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown_phase"})
			return
		}
		target = t
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target or phase required"})
		return
	}

	catalog, err := s.Store.Catalog()
	if err != nil {
		s.serverError(w, "load catalog", err)
		return
	}
	candidates := catalog.FilterBrand(req.Brand)

	share := clampShare(req.Water.SharePercent)
	doses, fit := s.Solver.Suggest(candidates, target, req.Water.Profile, share)
	if doses == nil {
		doses = []domain.ProductDose{}
	}
	writeJSON(w, http.StatusOK, SuggestResponse{Doses: doses, Fit: fit})
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nutrient.PhaseTargets())
}

// ---- Products ----

type ProductsListResponse struct {
	Total int            `json:"total"`
	Items domain.Catalog `json:"items"`
}

func (s *Server) handleProductsList(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.Store.Catalog()
	if err != nil {
		s.serverError(w, "load catalog", err)
		return
	}
	items := catalog.FilterBrand(r.URL.Query().Get("brand"))
	if items == nil {
		items = domain.Catalog{}
	}
	writeJSON(w, http.StatusOK, ProductsListResponse{Total: len(items), Items: items})
}

func (s *Server) handleProductCreate(w http.ResponseWriter, r *http.Request) {
	var f domain.Fertilizer
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if f.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if f.Unit == "" {
		f.Unit = "ml"
	}
	if f.Composition.IsZero() && f.ECPerUnit == 0 {
		http.Error(w, "composition must not be empty", http.StatusBadRequest)
		return
	}
	if err := s.Store.CreateProduct(f); err != nil {
		s.serverError(w, "create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) handleProductGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, ok, err := s.Store.GetProduct(name)
	if err != nil {
		s.serverError(w, "get product", err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleProductDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ok, err := s.Store.DeleteProduct(name)
	if err != nil {
		s.serverError(w, "delete product", err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---- Recipes ----

type CreateRecipeRequest struct {
	Name  string               `json:"name"`
	Doses []domain.ProductDose `json:"doses"`
}

func (s *Server) handleRecipeCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	rec, err := s.Store.SaveRecipe(req.Name, clampDoses(req.Doses))
	if err != nil {
		s.serverError(w, "save recipe", err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleRecipesList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.Store.ListRecipes()
	if err != nil {
		s.serverError(w, "list recipes", err)
		return
	}
	if recs == nil {
		recs = []domain.Recipe{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleRecipeGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok, err := s.Store.GetRecipe(id)
	if err != nil {
		s.serverError(w, "get recipe", err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRecipeDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ok, err := s.Store.DeleteRecipe(id)
	if err != nil {
		s.serverError(w, "delete recipe", err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---- helpers ----

func clampDoses(doses []domain.ProductDose) []domain.ProductDose {
	out := make([]domain.ProductDose, 0, len(doses))
	for _, d := range doses {
		if d.Dose < 0 {
			d.Dose = 0
		}
		out = append(out, d)
	}
	return out
}

func clampShare(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	s.Log.Error(op, "err", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
