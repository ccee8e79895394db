package server

import (
	"github.com/derekprior/doubles/internal/config"
	"github.com/go-chi/chi/v5"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// Handler serves schedules over HTTP. It keeps no state between requests.
type Handler struct {
	validate   *validator.Validate
	translator ut.Translator
	config     *config.Server

	Mux *chi.Mux
}

func New(cfg *config.Server) (*Handler, error) {
	validate, trans, err := config.Validator()
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		translator: trans,
		config:     cfg,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Healthz)
	h.Mux.Route("/schedules", func(r chi.Router) {
		r.Post("/", h.CreateSchedule)
		r.Post("/workbook", h.CreateWorkbook)
	})
}
