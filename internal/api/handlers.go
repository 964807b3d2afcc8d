package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/tatianab/read-the-room/internal/engine"
	"github.com/tatianab/read-the-room/internal/models"
)

type createGameRequest struct {
	CoOp bool `json:"co_op"`
}

type turnRequest struct {
	UserInput string `json:"user_input"`
	InputMode string `json:"input_mode"`
}

type silenceRequest struct {
	Level string `json:"level"`
}

type abilityRequest struct {
	Ability  string `json:"ability"`
	HintText string `json:"hint_text"`
}

// gameView is a session without its history.
type gameView struct {
	ID            string          `json:"id"`
	Turn          int             `json:"turn"`
	Act           models.Act      `json:"act"`
	Stats         models.Stats    `json:"stats"`
	LockoutTurns  int             `json:"lockout_turns"`
	Recovery      models.Recovery `json:"recovery"`
	GameOver      bool            `json:"game_over"`
	Ending        models.Ending   `json:"ending,omitempty"`
	EndingCause   models.Cause    `json:"ending_cause,omitempty"`
	EndingMessage string          `json:"ending_message,omitempty"`
	CoOp          bool            `json:"co_op,omitempty"`
	HandlerBudget int             `json:"handler_budget,omitempty"`
}

func viewOf(st *models.GameState) gameView {
	return gameView{
		ID:            st.ID,
		Turn:          st.Turn,
		Act:           st.Act,
		Stats:         st.Stats(),
		LockoutTurns:  st.LockoutTurns,
		Recovery:      st.Recovery,
		GameOver:      st.GameOver,
		Ending:        st.Ending,
		EndingCause:   st.EndingCause,
		EndingMessage: st.EndingMessage,
		CoOp:          st.CoOp,
		HandlerBudget: st.HandlerBudget,
	}
}

// decodeBody reads a JSON body. An empty body leaves v at its zero value.
func decodeBody(r *http.Request, v any) bool {
	if r.ContentLength == 0 {
		return true
	}
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func (s *Server) createGameHandler(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if !decodeBody(r, &req) {
		writeJSONResponse(w, http.StatusBadRequest, failure("Invalid JSON format"))
		return
	}
	st, err := s.engine.NewGame(r.Context(), req.CoOp)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, success(viewOf(st)))
}

func (s *Server) getGameHandler(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.Game(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, success(viewOf(st)))
}

func (s *Server) deleteGameHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteGame(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, Response{Status: statusOK, Message: "Game deleted"})
}

func (s *Server) turnHandler(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, failure("Invalid JSON format"))
		return
	}
	res, err := s.engine.SubmitTurn(r.Context(), r.PathValue("id"), req.UserInput, models.ParseInputMode(req.InputMode))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, success(res))
}

func (s *Server) silenceHandler(w http.ResponseWriter, r *http.Request) {
	var req silenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, failure("Invalid JSON format"))
		return
	}
	res, err := s.engine.Silence(r.Context(), r.PathValue("id"), req.Level)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, success(res))
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	turns, err := s.engine.History(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if turns == nil {
		turns = []models.Turn{}
	}
	writeJSONResponse(w, http.StatusOK, success(turns))
}

func (s *Server) breakdownHandler(w http.ResponseWriter, r *http.Request) {
	md, err := s.engine.Breakdown(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, success(map[string]string{"markdown": md}))
}

func (s *Server) abilityHandler(w http.ResponseWriter, r *http.Request) {
	var req abilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, failure("Invalid JSON format"))
		return
	}
	res, err := s.engine.UseAbility(r.Context(), r.PathValue("id"), engine.Ability(req.Ability), req.HintText)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, success(res))
}

func (s *Server) leaderboardHandler(w http.ResponseWriter, r *http.Request) {
	if s.board == nil {
		writeJSONResponse(w, http.StatusNotFound, failure("Leaderboard is not configured"))
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSONResponse(w, http.StatusBadRequest, failure("Invalid limit"))
			return
		}
		limit = n
	}
	entries, err := s.board.Top(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, success(entries))
}
