package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"swiss-tournament-system/models"
	"swiss-tournament-system/pairing"
	"swiss-tournament-system/repositories"
	"swiss-tournament-system/scoring"
)

type SessionState string

const (
	StateNotStarted      SessionState = "not_started"
	StateRoundInProgress SessionState = "round_in_progress"
	StateRoundComplete   SessionState = "round_complete"
	StateFinished        SessionState = "finished"
)

type pairID struct {
	low, high int
}

func newPairID(a, b int) pairID {
	if a > b {
		a, b = b, a
	}
	return pairID{low: a, high: b}
}

// expectedRound tracks which of the current round's pairings and bye have
// been reported so far.
type expectedRound struct {
	reported     map[pairID]bool
	pendingPairs int
	bye          *int
	byeReported  bool
}

func (r *expectedRound) done() bool {
	return r.pendingPairs == 0 && (r.bye == nil || r.byeReported)
}

// TournamentSession orchestrates a single tournament from registration to
// the final commit. It owns the in-memory working set (players, standings,
// match history) and allocates player and match ids itself, so nothing
// touches the store until Finish. A session requires exclusive access: all
// methods lock, and one coordinating caller is expected per tournament.
// Independent sessions share no state and may run fully in parallel.
type TournamentSession struct {
	mu sync.Mutex

	generator pairing.Generator
	store     repositories.TournamentStore
	logger    *slog.Logger

	state       SessionState
	started     bool
	totalRounds int
	roundNum    int

	players      []models.Player
	standings    map[int]*models.Standing
	history      pairing.History
	matches      []*models.MatchRecord
	nextPlayerID int
	nextMatchID  int

	current *expectedRound
}

func NewTournamentSession(generator pairing.Generator, store repositories.TournamentStore, logger *slog.Logger) *TournamentSession {
	if logger == nil {
		logger = slog.Default()
	}
	return &TournamentSession{
		generator:    generator,
		store:        store,
		logger:       logger,
		state:        StateNotStarted,
		standings:    make(map[int]*models.Standing),
		history:      pairing.NewHistory(),
		nextPlayerID: 1,
		nextMatchID:  1,
	}
}

// RegisterPlayer adds a player before the tournament starts and allocates
// their id from the session's own counter.
func (s *TournamentSession) RegisterPlayer(name string) (models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return models.Player{}, ErrAlreadyStarted
	}

	player := models.Player{ID: s.nextPlayerID, Name: name}
	s.nextPlayerID++
	s.players = append(s.players, player)
	s.standings[player.ID] = &models.Standing{PlayerID: player.ID}
	return player, nil
}

// Start freezes registration and zeroes all standings. A rounds value of
// zero derives ceil(log2(even player count)), the usual Swiss round count.
func (s *TournamentSession) Start(rounds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	if rounds <= 0 {
		rounds = defaultRounds(len(s.players))
	}
	s.totalRounds = rounds
	s.started = true
	s.logger.Info("tournament started",
		slog.Int("players", len(s.players)),
		slog.Int("rounds", rounds))
	return nil
}

func defaultRounds(playerCount int) int {
	eff := playerCount
	if eff%2 == 1 {
		eff--
	}
	if eff < 2 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(eff))))
}

// BeginRound asks the pairing generator for the next round from a snapshot
// of current standings and the full match history, then stores the result
// as the round's expected matches. A round with no pairs and no bye (zero
// registered players) completes immediately.
func (s *TournamentSession) BeginRound(ctx context.Context) (*pairing.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	switch s.state {
	case StateRoundInProgress:
		return nil, ErrRoundInProgress
	case StateFinished:
		return nil, ErrTournamentFinished
	}
	if s.roundNum >= s.totalRounds {
		return nil, ErrNoRoundsRemaining
	}

	round, err := s.generator.GeneratePairings(ctx, pairing.GeneratePairingsParams{
		Standings: s.rankedStandingsLocked(),
		History:   s.history,
	})
	if err != nil {
		return nil, fmt.Errorf("pairing round %d: %w", s.roundNum+1, err)
	}

	s.roundNum++
	s.current = &expectedRound{
		reported:     make(map[pairID]bool, len(round.Pairs)),
		pendingPairs: len(round.Pairs),
		bye:          round.ByePlayerID,
	}
	for _, pair := range round.Pairs {
		s.current.reported[newPairID(pair.Player1ID, pair.Player2ID)] = false
	}

	if s.current.done() {
		s.state = StateRoundComplete
	} else {
		s.state = StateRoundInProgress
	}
	s.logger.Info("round paired",
		slog.Int("round", s.roundNum),
		slog.Int("pairs", len(round.Pairs)),
		slog.Bool("bye", round.ByePlayerID != nil))
	return round, nil
}

// ReportResult records the outcome of one of the current round's expected
// matches. Winner and loser may be given in either order when tie is true.
// Standings are untouched on any validation failure.
func (s *TournamentSession) ReportResult(winnerID, loserID int, tie bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRoundInProgress {
		return ErrRoundNotInProgress
	}
	key := newPairID(winnerID, loserID)
	reported, expected := s.current.reported[key]
	if !expected {
		return ErrUnexpectedPair
	}
	if reported {
		return ErrDuplicateReport
	}

	winner := s.standings[winnerID]
	loser := s.standings[loserID]
	if tie {
		d1, d2 := scoring.ApplyTie()
		winner.Score += d1
		loser.Score += d2
		winner.Ties++
		loser.Ties++
	} else {
		winnerDelta, loserDelta := scoring.ApplyResult()
		winner.Score += winnerDelta
		loser.Score += loserDelta
		winner.Wins++
		loser.Losses++
	}
	winner.Matches++
	loser.Matches++

	s.history.Add(winnerID, loserID)
	opponent := loserID
	s.matches = append(s.matches, &models.MatchRecord{
		ID:          s.nextMatchID,
		RoundNumber: s.roundNum,
		WinnerID:    winnerID,
		LoserID:     &opponent,
		Tie:         tie,
	})
	s.nextMatchID++

	s.current.reported[key] = true
	s.current.pendingPairs--
	s.completeRoundIfDoneLocked()
	return nil
}

// ReportBye records the bye for the round's designated recipient, worth
// one point and counted against their single-bye allowance.
func (s *TournamentSession) ReportBye(playerID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRoundInProgress {
		return ErrRoundNotInProgress
	}
	if s.current.bye == nil || *s.current.bye != playerID {
		return ErrNoByeExpected
	}
	if s.current.byeReported {
		return ErrDuplicateReport
	}

	standing := s.standings[playerID]
	standing.Score += scoring.ApplyBye()
	standing.Byes++

	s.matches = append(s.matches, &models.MatchRecord{
		ID:          s.nextMatchID,
		RoundNumber: s.roundNum,
		WinnerID:    playerID,
	})
	s.nextMatchID++

	s.current.byeReported = true
	s.completeRoundIfDoneLocked()
	return nil
}

func (s *TournamentSession) completeRoundIfDoneLocked() {
	if s.current.done() {
		s.state = StateRoundComplete
		s.logger.Info("round complete", slog.Int("round", s.roundNum))
	}
}

// Finish commits the whole tournament to the store in a single atomic
// transaction. It is only valid once every configured round has been fully
// reported; until then nothing is persisted. A failed commit leaves the
// session in RoundComplete so the caller may retry.
func (s *TournamentSession) Finish(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinished {
		return 0, ErrTournamentFinished
	}
	if s.state != StateRoundComplete || s.roundNum < s.totalRounds {
		return 0, ErrTournamentIncomplete
	}

	tournamentID, err := s.store.CommitTournament(ctx, s.players, s.rankedStandingsLocked(), s.matches)
	if err != nil {
		return 0, fmt.Errorf("finish tournament: %w", err)
	}
	s.state = StateFinished
	s.logger.Info("tournament committed",
		slog.Int("tournament_id", tournamentID),
		slog.Int("matches", len(s.matches)))
	return tournamentID, nil
}

// rankedStandingsLocked returns standings sorted by score descending with
// registration order as the stable tiebreak, the same order the pairing
// engine ranks by.
func (s *TournamentSession) rankedStandingsLocked() []*models.Standing {
	ranked := make([]*models.Standing, 0, len(s.players))
	for _, player := range s.players {
		ranked = append(ranked, s.standings[player.ID])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Standings returns a ranked snapshot safe to use outside the session lock.
func (s *TournamentSession) Standings() []models.Standing {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]models.Standing, 0, len(s.players))
	for _, standing := range s.rankedStandingsLocked() {
		snapshot = append(snapshot, *standing)
	}
	return snapshot
}

// Winners returns every player holding the current maximum score.
func (s *TournamentSession) Winners() []models.Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.players) == 0 {
		return nil
	}
	maxScore := 0
	for _, standing := range s.standings {
		if standing.Score > maxScore {
			maxScore = standing.Score
		}
	}
	var winners []models.Player
	for _, player := range s.players {
		if s.standings[player.ID].Score == maxScore {
			winners = append(winners, player)
		}
	}
	return winners
}

func (s *TournamentSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *TournamentSession) CurrentRound() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roundNum
}

func (s *TournamentSession) TotalRounds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalRounds
}
