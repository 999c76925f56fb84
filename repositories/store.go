package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"swiss-tournament-system/models"
)

// ErrCommitFailed wraps any storage error during the final commit. The
// commit runs in a single transaction, so a failed call writes nothing
// and the same call may be retried as-is.
var ErrCommitFailed = errors.New("tournament commit failed")

// SQLExecutor abstracts *sql.DB and *sql.Tx so inserts can run inside the
// commit transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TournamentStore is the only persistence surface the session consumes,
// and only on finish. Everything before the commit lives in memory.
type TournamentStore interface {
	CommitTournament(ctx context.Context, players []models.Player, standings []*models.Standing, matches []*models.MatchRecord) (int, error)
}

type postgresTournamentStore struct {
	db *sql.DB
}

func NewPostgresTournamentStore(db *sql.DB) TournamentStore {
	return &postgresTournamentStore{db: db}
}

// CommitTournament persists the whole tournament all-or-nothing: the
// tournament row, its players, every match record and the final standings
// go through one transaction. The store allocates the durable tournament
// id; player and match ids arrive pre-allocated by the session.
func (s *postgresTournamentStore) CommitTournament(ctx context.Context, players []models.Player, standings []*models.Standing, matches []*models.MatchRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin transaction: %w", ErrCommitFailed, err)
	}
	defer tx.Rollback()

	var tournamentID int
	err = tx.QueryRowContext(ctx,
		`INSERT INTO tournaments DEFAULT VALUES RETURNING id`,
	).Scan(&tournamentID)
	if err != nil {
		return 0, fmt.Errorf("%w: create tournament: %w", ErrCommitFailed, err)
	}

	if err := insertPlayers(ctx, tx, tournamentID, players); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}
	if err := insertMatches(ctx, tx, tournamentID, matches); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}
	if err := insertStandings(ctx, tx, tournamentID, standings); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %w", ErrCommitFailed, err)
	}
	return tournamentID, nil
}

func insertPlayers(ctx context.Context, exec SQLExecutor, tournamentID int, players []models.Player) error {
	for _, player := range players {
		_, err := exec.ExecContext(ctx,
			`INSERT INTO players (tournament_id, player_id, name) VALUES ($1, $2, $3)`,
			tournamentID, player.ID, player.Name,
		)
		if err != nil {
			return fmt.Errorf("insert player %d: %w", player.ID, err)
		}
	}
	return nil
}

func insertMatches(ctx context.Context, exec SQLExecutor, tournamentID int, matches []*models.MatchRecord) error {
	for _, match := range matches {
		// A bye row keeps loser_id and tie NULL, matching the
		// single-valid-id layout of the matches table.
		var tie interface{}
		if !match.IsBye() {
			tie = match.Tie
		}
		_, err := exec.ExecContext(ctx,
			`INSERT INTO matches (tournament_id, match_id, winner_id, loser_id, tie, round_num)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			tournamentID, match.ID, match.WinnerID, match.LoserID, tie, match.RoundNumber,
		)
		if err != nil {
			return fmt.Errorf("insert match %d: %w", match.ID, err)
		}
	}
	return nil
}

func insertStandings(ctx context.Context, exec SQLExecutor, tournamentID int, standings []*models.Standing) error {
	for _, standing := range standings {
		_, err := exec.ExecContext(ctx,
			`INSERT INTO standings (tournament_id, player_id, wins, losses, ties, byes, score, matches)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			tournamentID, standing.PlayerID, standing.Wins, standing.Losses,
			standing.Ties, standing.Byes, standing.Score, standing.Matches,
		)
		if err != nil {
			return fmt.Errorf("insert standing for player %d: %w", standing.PlayerID, err)
		}
	}
	return nil
}
