package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/derekprior/doubles/internal/config"
	"github.com/derekprior/doubles/internal/excel"
	"github.com/derekprior/doubles/internal/roster"
	"github.com/derekprior/doubles/internal/schedule"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type scheduleRequest struct {
	Players    string         `json:"players"`
	Names      []string       `json:"names"`
	MaxCourts  int            `json:"max_courts" validate:"gte=1"`
	MaxRounds  int            `json:"max_rounds" validate:"gte=1"`
	PrintStats bool           `json:"print_stats"`
	Seed       *int64         `json:"seed"`
	Weights    config.Weights `json:"weights"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "ok", nil)
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	report, ok := h.runSchedule(w, r)
	if !ok {
		return
	}
	h.successResponse(w, r, fmt.Sprintf("scheduled %d rounds for %d players", len(report.Rounds), len(report.Players)), report)
}

func (h *Handler) CreateWorkbook(w http.ResponseWriter, r *http.Request) {
	report, ok := h.runSchedule(w, r)
	if !ok {
		return
	}

	f, err := excel.Generate(report)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.xlsx"`)
	if _, err := f.WriteTo(w); err != nil {
		h.logInternalServerError(r, err)
	}
}

// runSchedule decodes and checks the request, then runs it against a fresh
// history. It writes the error response itself and reports false on failure.
func (h *Handler) runSchedule(w http.ResponseWriter, r *http.Request) (*schedule.Report, bool) {
	def := config.Default()
	req := scheduleRequest{
		MaxCourts: def.MaxCourts,
		MaxRounds: def.MaxRounds,
		Weights:   def.Weights,
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}

	cfg, err := h.toConfig(req)
	if err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}

	report, err := schedule.Run(cfg.Players, cfg, nil)
	if err != nil {
		if errors.Is(err, roster.ErrTooFewPlayers) {
			h.badRequest(w, r, err)
		} else {
			h.internalServerError(w, r, err)
		}
		return nil, false
	}
	return report, true
}

func (h *Handler) toConfig(req scheduleRequest) (*config.Config, error) {
	if req.Players != "" && len(req.Names) > 0 {
		return nil, errors.New("players and names cannot both be set")
	}
	players := req.Players
	if len(req.Names) > 0 {
		players = roster.FromNames(req.Names)
	}

	if req.MaxRounds > h.config.MaxRounds {
		return nil, fmt.Errorf("max_rounds must be at most %d", h.config.MaxRounds)
	}

	cfg := &config.Config{
		Players:    players,
		MaxCourts:  req.MaxCourts,
		MaxRounds:  req.MaxRounds,
		PrintStats: req.PrintStats,
		Seed:       req.Seed,
		Weights:    req.Weights,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Parse errors surface from schedule.Run; only the size cap is checked here.
	if parsed, _ := roster.Parse(players); parsed != nil && len(parsed.Players) > h.config.MaxPlayers {
		return nil, fmt.Errorf("roster has %d players; at most %d allowed", len(parsed.Players), h.config.MaxPlayers)
	}
	return cfg, nil
}
