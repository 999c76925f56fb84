package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"swiss-tournament-system/models"
	"swiss-tournament-system/pairing"
	"swiss-tournament-system/repositories"
	"swiss-tournament-system/services"
)

type TournamentHandler struct {
	manager   *services.SessionManager
	generator pairing.Generator
	store     repositories.TournamentStore
	hub       *pairing.Hub
	logger    *slog.Logger
}

func NewTournamentHandler(
	manager *services.SessionManager,
	generator pairing.Generator,
	store repositories.TournamentStore,
	hub *pairing.Hub,
	logger *slog.Logger,
) *TournamentHandler {
	return &TournamentHandler{
		manager:   manager,
		generator: generator,
		store:     store,
		hub:       hub,
		logger:    logger,
	}
}

func roomID(tournamentID string) string {
	return "tournament_" + tournamentID
}

func (h *TournamentHandler) sessionFromURL(w http.ResponseWriter, r *http.Request) (string, *services.TournamentSession, bool) {
	id := chi.URLParam(r, "tournamentID")
	session, err := h.manager.Get(id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return "", nil, false
	}
	return id, session, true
}

func (h *TournamentHandler) CreateTournamentHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Players []string `json:"players"`
		Rounds  int      `json:"rounds"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	for _, name := range input.Players {
		if strings.TrimSpace(name) == "" {
			badRequestResponse(w, r, errors.New("player names must not be blank"))
			return
		}
	}

	session := services.NewTournamentSession(h.generator, h.store, h.logger)
	players := make([]models.Player, 0, len(input.Players))
	for _, name := range input.Players {
		player, err := session.RegisterPlayer(name)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		players = append(players, player)
	}
	if err := session.Start(input.Rounds); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	id := h.manager.Add(session)
	response := jsonResponse{
		"tournament_id": id,
		"players":       players,
		"rounds":        session.TotalRounds(),
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) BeginRoundHandler(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.sessionFromURL(w, r)
	if !ok {
		return
	}

	round, err := session.BeginRound(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	payload := jsonResponse{
		"round_number": session.CurrentRound(),
		"pairs":        round.Pairs,
		"bye":          round.ByePlayerID,
	}
	h.hub.BroadcastToRoom(roomID(id), pairing.Event{Type: pairing.EventRoundPaired, Payload: payload})
	if err := writeJSON(w, http.StatusCreated, payload, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ReportResultHandler(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.sessionFromURL(w, r)
	if !ok {
		return
	}

	var input struct {
		WinnerID int  `json:"winner_id"`
		LoserID  int  `json:"loser_id"`
		Tie      bool `json:"tie"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := session.ReportResult(input.WinnerID, input.LoserID, input.Tie); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	payload := jsonResponse{
		"winner_id": input.WinnerID,
		"loser_id":  input.LoserID,
		"tie":       input.Tie,
		"state":     session.State(),
	}
	h.hub.BroadcastToRoom(roomID(id), pairing.Event{Type: pairing.EventResultReported, Payload: payload})
	if err := writeJSON(w, http.StatusOK, payload, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ReportByeHandler(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.sessionFromURL(w, r)
	if !ok {
		return
	}

	var input struct {
		PlayerID int `json:"player_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := session.ReportBye(input.PlayerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	payload := jsonResponse{
		"bye_player_id": input.PlayerID,
		"state":         session.State(),
	}
	h.hub.BroadcastToRoom(roomID(id), pairing.Event{Type: pairing.EventResultReported, Payload: payload})
	if err := writeJSON(w, http.StatusOK, payload, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	_, session, ok := h.sessionFromURL(w, r)
	if !ok {
		return
	}

	response := jsonResponse{
		"standings":    session.Standings(),
		"round":        session.CurrentRound(),
		"total_rounds": session.TotalRounds(),
		"state":        session.State(),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) FinishHandler(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.sessionFromURL(w, r)
	if !ok {
		return
	}

	persistedID, err := session.Finish(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.manager.Remove(id)

	payload := jsonResponse{
		"tournament_id": persistedID,
		"winners":       session.Winners(),
	}
	h.hub.BroadcastToRoom(roomID(id), pairing.Event{Type: pairing.EventTournamentFinished, Payload: payload})
	if err := writeJSON(w, http.StatusOK, payload, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AbandonHandler drops a live session without committing anything, the
// intended way to discard a tournament.
func (h *TournamentHandler) AbandonHandler(w http.ResponseWriter, r *http.Request) {
	id, _, ok := h.sessionFromURL(w, r)
	if !ok {
		return
	}
	h.manager.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}
