package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swiss-tournament-system/models"
	"swiss-tournament-system/pairing"
	"swiss-tournament-system/repositories"
)

// recordingStore captures the single commit call so tests can assert on
// exactly what would be persisted.
type recordingStore struct {
	commits   int
	players   []models.Player
	standings []*models.Standing
	matches   []*models.MatchRecord
	err       error
}

func (s *recordingStore) CommitTournament(_ context.Context, players []models.Player, standings []*models.Standing, matches []*models.MatchRecord) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.commits++
	s.players = players
	s.standings = standings
	s.matches = matches
	return s.commits, nil
}

func newTestSession(t *testing.T, names ...string) (*TournamentSession, *recordingStore) {
	t.Helper()
	store := &recordingStore{}
	session := NewTournamentSession(pairing.NewSwissGenerator(), store, nil)
	for _, name := range names {
		_, err := session.RegisterPlayer(name)
		require.NoError(t, err)
	}
	return session, store
}

func requireScoreIdentity(t *testing.T, session *TournamentSession) {
	t.Helper()
	for _, s := range session.Standings() {
		require.Equal(t, 2*s.Wins+s.Ties+s.Byes, s.Score,
			"score identity broken for player %d", s.PlayerID)
		require.LessOrEqual(t, s.Byes, 1, "player %d has more than one bye", s.PlayerID)
	}
}

// playRound begins a round and reports every pairing with the better
// ranked player winning, plus the bye if there is one.
func playRound(t *testing.T, session *TournamentSession) *pairing.Round {
	t.Helper()
	round, err := session.BeginRound(context.Background())
	require.NoError(t, err)
	for _, pair := range round.Pairs {
		require.NoError(t, session.ReportResult(pair.Player1ID, pair.Player2ID, false))
		requireScoreIdentity(t, session)
	}
	if round.ByePlayerID != nil {
		require.NoError(t, session.ReportBye(*round.ByePlayerID))
		requireScoreIdentity(t, session)
	}
	require.Equal(t, StateRoundComplete, session.State())
	return round
}

func TestRegistrationClosesOnStart(t *testing.T) {
	session, _ := newTestSession(t, "Alice", "Bob")
	require.NoError(t, session.Start(1))

	_, err := session.RegisterPlayer("Carol")
	assert.ErrorIs(t, err, ErrAlreadyStarted)
	assert.ErrorIs(t, session.Start(1), ErrAlreadyStarted)
}

func TestDefaultRoundCount(t *testing.T) {
	cases := []struct {
		players int
		rounds  int
	}{
		{2, 1},
		{4, 2},
		{8, 3},
		{11, 4}, // odd: derived from the 10 effective players
		{0, 1},
	}
	for _, tc := range cases {
		names := make([]string, tc.players)
		for i := range names {
			names[i] = "p"
		}
		session, _ := newTestSession(t, names...)
		require.NoError(t, session.Start(0))
		assert.Equal(t, tc.rounds, session.TotalRounds(), "players=%d", tc.players)
	}
}

func TestReportOutsideRoundFails(t *testing.T) {
	session, _ := newTestSession(t, "Alice", "Bob")
	require.NoError(t, session.Start(1))

	assert.ErrorIs(t, session.ReportResult(1, 2, false), ErrRoundNotInProgress)
	assert.ErrorIs(t, session.ReportBye(1), ErrRoundNotInProgress)
}

func TestUnexpectedPairLeavesStandingsUnchanged(t *testing.T) {
	session, _ := newTestSession(t, "Alice", "Bob", "Carol", "Dave")
	require.NoError(t, session.Start(0))

	_, err := session.BeginRound(context.Background())
	require.NoError(t, err)

	// Round one pairs (1,2) and (3,4); (1,3) is not an expected match.
	assert.ErrorIs(t, session.ReportResult(1, 3, false), ErrUnexpectedPair)
	for _, s := range session.Standings() {
		assert.Zero(t, s.Score)
		assert.Zero(t, s.Matches)
	}
}

func TestDuplicateReportIsRejected(t *testing.T) {
	session, _ := newTestSession(t, "Alice", "Bob", "Carol", "Dave")
	require.NoError(t, session.Start(0))

	_, err := session.BeginRound(context.Background())
	require.NoError(t, err)

	require.NoError(t, session.ReportResult(1, 2, false))
	assert.ErrorIs(t, session.ReportResult(1, 2, false), ErrDuplicateReport)
	// The reversed orientation is the same unordered pair.
	assert.ErrorIs(t, session.ReportResult(2, 1, false), ErrDuplicateReport)
}

func TestByeGoesOnlyToDesignatedPlayer(t *testing.T) {
	session, _ := newTestSession(t, "Alice", "Bob", "Carol")
	require.NoError(t, session.Start(1))

	round, err := session.BeginRound(context.Background())
	require.NoError(t, err)
	require.NotNil(t, round.ByePlayerID)
	assert.Equal(t, 3, *round.ByePlayerID)

	assert.ErrorIs(t, session.ReportBye(1), ErrNoByeExpected)
	require.NoError(t, session.ReportBye(3))
	assert.ErrorIs(t, session.ReportBye(3), ErrDuplicateReport)

	require.NoError(t, session.ReportResult(1, 2, true))
	requireScoreIdentity(t, session)
	assert.Equal(t, StateRoundComplete, session.State())
}

func TestFinishBeforeAllRoundsFails(t *testing.T) {
	session, store := newTestSession(t, "Alice", "Bob", "Carol", "Dave")
	require.NoError(t, session.Start(2))

	_, err := session.Finish(context.Background())
	assert.ErrorIs(t, err, ErrTournamentIncomplete)

	playRound(t, session)
	_, err = session.Finish(context.Background())
	assert.ErrorIs(t, err, ErrTournamentIncomplete)

	assert.Zero(t, store.commits, "store must not be touched before the final round")
}

func TestFullTournamentCommitsOnce(t *testing.T) {
	session, store := newTestSession(t, "Alice", "Bob", "Carol", "Dave")
	require.NoError(t, session.Start(0))

	playRound(t, session)
	playRound(t, session)

	tournamentID, err := session.Finish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, tournamentID)
	assert.Equal(t, 1, store.commits)
	assert.Equal(t, StateFinished, session.State())
	assert.Len(t, store.matches, 4)

	// Alice won every match under playRound's fixed outcomes.
	winners := session.Winners()
	require.Len(t, winners, 1)
	assert.Equal(t, "Alice", winners[0].Name)

	_, err = session.Finish(context.Background())
	assert.ErrorIs(t, err, ErrTournamentFinished)
}

func TestNoRematchAcrossFullTournament(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	session, store := newTestSession(t, names...)
	require.NoError(t, session.Start(0))

	for session.CurrentRound() < session.TotalRounds() {
		playRound(t, session)
	}
	_, err := session.Finish(context.Background())
	require.NoError(t, err)

	seen := make(map[[2]int]bool)
	byes := make(map[int]int)
	for _, match := range store.matches {
		if match.IsBye() {
			byes[match.WinnerID]++
			continue
		}
		key := [2]int{match.WinnerID, *match.LoserID}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		assert.False(t, seen[key], "pair %v played twice", key)
		seen[key] = true
	}
	for playerID, count := range byes {
		assert.Equal(t, 1, count, "player %d received multiple byes", playerID)
	}
}

func TestFailedCommitIsRetryable(t *testing.T) {
	session, store := newTestSession(t, "Alice", "Bob")
	require.NoError(t, session.Start(1))
	playRound(t, session)

	store.err = repositories.ErrCommitFailed
	_, err := session.Finish(context.Background())
	require.ErrorIs(t, err, repositories.ErrCommitFailed)
	assert.Equal(t, StateRoundComplete, session.State())

	store.err = nil
	tournamentID, err := session.Finish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, tournamentID)
	assert.Equal(t, StateFinished, session.State())
}

func TestZeroPlayerTournamentIsANoOp(t *testing.T) {
	session, store := newTestSession(t)
	require.NoError(t, session.Start(0))

	round, err := session.BeginRound(context.Background())
	require.NoError(t, err)
	assert.Empty(t, round.Pairs)
	assert.Nil(t, round.ByePlayerID)
	assert.Equal(t, StateRoundComplete, session.State())

	_, err = session.Finish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.commits)
	assert.Empty(t, store.players)
}

func TestBeginRoundPastFinalRoundFails(t *testing.T) {
	session, _ := newTestSession(t, "Alice", "Bob")
	require.NoError(t, session.Start(1))
	playRound(t, session)

	_, err := session.BeginRound(context.Background())
	assert.ErrorIs(t, err, ErrNoRoundsRemaining)
}
