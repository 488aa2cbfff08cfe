package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/config"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/tictactoe"
)

type sessionService interface {
	Create(ctx context.Context) (entity.State, error)
	State(ctx context.Context, id string) (entity.State, error)
	Move(ctx context.Context, id string, cell int) (tictactoe.MoveResult, entity.State, error)
	Restart(ctx context.Context, id string) (entity.State, error)
	NewGame(ctx context.Context, id string) (entity.State, error)
	UpdateProfile(ctx context.Context, id string, mark entity.Mark, profile entity.Profile) (entity.State, error)
	Delete(ctx context.Context, id string) error
}

type MoveRequest struct {
	Cell *int `json:"cell"`
}

type MoveResponse struct {
	Applied   bool           `json:"applied"`
	Rejection string         `json:"rejection,omitempty"`
	Outcome   entity.Outcome `json:"outcome"`
	NextTurn  entity.Mark    `json:"next_turn"`
	Events    []entity.Event `json:"events"`
	State     entity.State   `json:"state"`
}

type SettingsResponse struct {
	SoundEnabled     bool             `json:"sound_enabled"`
	AnimationEnabled bool             `json:"animation_enabled"`
	Avatars          []string         `json:"avatars"`
	Players          []entity.Profile `json:"players"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handlers struct {
	logger       *slog.Logger
	sessions     sessionService
	presentation config.Presentation
}

func NewHandlers(logger *slog.Logger, sessions sessionService, presentation config.Presentation) *Handlers {
	return &Handlers{
		logger:       logger.With("component", "rest"),
		sessions:     sessions,
		presentation: presentation,
	}
}

func (that *Handlers) Settings(w http.ResponseWriter, _ *http.Request) {
	first, second := that.presentation.Profiles()

	writeJSON(w, http.StatusOK, SettingsResponse{
		SoundEnabled:     that.presentation.SoundEnabled,
		AnimationEnabled: that.presentation.AnimationEnabled,
		Avatars:          that.presentation.Avatars,
		Players:          []entity.Profile{first, second},
	})
}

func (that *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	state, err := that.sessions.Create(r.Context())
	if err != nil {
		that.handleError(w, "CreateSession", err)
		return
	}

	writeJSON(w, http.StatusCreated, state)
}

func (that *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := that.sessions.State(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.handleError(w, "GetSession", err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (that *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := that.sessions.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		that.handleError(w, "DeleteSession", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Move answers 200 even when the move is rejected; Applied tells the client what happened.
func (that *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		writeError(w, http.StatusBadRequest, "cell is required")
		return
	}

	result, state, err := that.sessions.Move(r.Context(), mux.Vars(r)["id"], *req.Cell)
	if err != nil {
		that.handleError(w, "Move", err)
		return
	}

	response := MoveResponse{
		Applied:  result.Applied,
		Outcome:  result.Outcome,
		NextTurn: result.NextTurn,
		Events:   result.Events(),
		State:    state,
	}

	if result.Rejection != nil {
		response.Rejection = result.Rejection.Error()
	}

	if response.Events == nil {
		response.Events = []entity.Event{}
	}

	writeJSON(w, http.StatusOK, response)
}

func (that *Handlers) Restart(w http.ResponseWriter, r *http.Request) {
	state, err := that.sessions.Restart(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.handleError(w, "Restart", err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (that *Handlers) NewGame(w http.ResponseWriter, r *http.Request) {
	state, err := that.sessions.NewGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.handleError(w, "NewGame", err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (that *Handlers) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var profile entity.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile")
		return
	}

	mark := entity.Mark(strings.ToUpper(vars["mark"]))

	state, err := that.sessions.UpdateProfile(r.Context(), vars["id"], mark, profile)
	if err != nil {
		that.handleError(w, "UpdatePlayer", err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (that *Handlers) handleError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, apperror.ErrSessionNotFound.Error())
	case errors.Is(err, apperror.ErrUnknownAvatar),
		errors.Is(err, tictactoe.ErrUnknownMark),
		errors.Is(err, apperror.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
