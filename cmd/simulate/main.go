// Command simulate runs dummy tournaments with random outcomes, the
// quickest way to exercise the full pairing/scoring/commit path. Without
// a DSN the results are discarded instead of committed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"swiss-tournament-system/db"
	"swiss-tournament-system/models"
	"swiss-tournament-system/pairing"
	"swiss-tournament-system/repositories"
	"swiss-tournament-system/services"
)

var defaultPlayers = []string{
	"Twilight Sparkle",
	"Fluttershy",
	"Applejack",
	"Pinkie Pie",
	"Rarity",
	"Rainbow Dash",
	"Princess Celestia",
	"Princess Luna",
	"Willie",
	"Joe",
	"Ralph",
}

// discardStore satisfies the store contract for dry runs without a
// database.
type discardStore struct {
	mu   sync.Mutex
	next int
}

func (s *discardStore) CommitTournament(_ context.Context, _ []models.Player, _ []*models.Standing, _ []*models.MatchRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next, nil
}

func main() {
	var (
		dsn         = flag.String("dsn", os.Getenv("DATABASE_URL"), "postgres DSN; empty runs without persistence")
		tournaments = flag.Int("tournaments", 1, "number of tournaments to run in parallel")
		playerList  = flag.String("players", "", "comma separated player names (default: built-in list)")
		seed        = flag.Int64("seed", time.Now().UnixNano(), "random seed for match outcomes")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	names := defaultPlayers
	if *playerList != "" {
		names = strings.Split(*playerList, ",")
	}

	var store repositories.TournamentStore = &discardStore{}
	if *dsn != "" {
		conn, err := db.Connect(*dsn, 5*time.Second)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer conn.Close()
		if err := db.EnsureSchema(context.Background(), conn); err != nil {
			logger.Error("failed to apply schema", slog.Any("error", err))
			os.Exit(1)
		}
		store = repositories.NewPostgresTournamentStore(conn)
	}

	generator := pairing.NewSwissGenerator()
	rootRng := rand.New(rand.NewSource(*seed))

	// Independent tournaments share no state, so they can run fully in
	// parallel.
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < *tournaments; i++ {
		rng := rand.New(rand.NewSource(rootRng.Int63()))
		g.Go(func() error {
			return runTournament(ctx, generator, store, logger, names, rng)
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("simulation failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func runTournament(ctx context.Context, generator pairing.Generator, store repositories.TournamentStore, logger *slog.Logger, names []string, rng *rand.Rand) error {
	session := services.NewTournamentSession(generator, store, logger)
	for _, name := range names {
		if _, err := session.RegisterPlayer(name); err != nil {
			return err
		}
	}
	if err := session.Start(0); err != nil {
		return err
	}

	for session.CurrentRound() < session.TotalRounds() {
		round, err := session.BeginRound(ctx)
		if err != nil {
			return err
		}
		for _, pair := range round.Pairs {
			// 0: player 2 wins, 1: tie, 2: player 1 wins.
			switch rng.Intn(3) {
			case 2:
				err = session.ReportResult(pair.Player1ID, pair.Player2ID, false)
			case 1:
				err = session.ReportResult(pair.Player1ID, pair.Player2ID, true)
			default:
				err = session.ReportResult(pair.Player2ID, pair.Player1ID, false)
			}
			if err != nil {
				return err
			}
		}
		if round.ByePlayerID != nil {
			if err := session.ReportBye(*round.ByePlayerID); err != nil {
				return err
			}
		}
	}

	tournamentID, err := session.Finish(ctx)
	if err != nil {
		return err
	}

	var winners []string
	for _, winner := range session.Winners() {
		winners = append(winners, winner.Name)
	}
	fmt.Printf("tournament %d winner(s): %s\n", tournamentID, strings.Join(winners, ", "))
	return nil
}
