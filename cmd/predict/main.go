package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/skillrank/internal/adapters/sqlstore"
	app "github.com/okian/skillrank/internal/app"
	"github.com/okian/skillrank/internal/config"
	"github.com/okian/skillrank/pkg/logger"
)

func main() {
	var (
		first  = flag.String("a", "", "Player id of the first competitor (required)")
		second = flag.String("b", "", "Player id of the second competitor (required)")
		help   = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help || *first == "" || *second == "" {
		showHelp(os.Stderr)
		if !*help {
			os.Exit(2)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Stdout, *first, *second)
	stop()
	if err != nil {
		os.Stderr.WriteString("predict: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func showHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: predict -a <player id> -b <player id>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Replays the configured match history and prints the expected")
	fmt.Fprintln(w, "outcome and match quality for the given pairing.")
	fmt.Fprintln(w)
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
}

func run(ctx context.Context, out io.Writer, firstID, secondID string) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Logs go to stderr so stdout carries only the prediction.
	if err := logger.InitWithWriter(os.Stderr, cfg.LogFormat); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	store, err := sqlstore.Open(ctx, cfg.DBDriver, cfg.DBDSN, sqlstore.WithSetsOrder(cfg.DBSetsOrder))
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	svc := app.New(
		app.WithGateway(store),
		app.WithRatingConfig(cfg.Rating()),
		app.WithProgressEvery(cfg.ProgressEvery),
	)

	p, err := svc.Predict(ctx, firstID, secondID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (%s): mu=%.4f sigma=%.4f\n", p.First.Name, p.First.ID, p.First.Rating.Mu, p.First.Rating.Sigma)
	fmt.Fprintf(out, "%s (%s): mu=%.4f sigma=%.4f\n", p.Second.Name, p.Second.ID, p.Second.Rating.Mu, p.Second.Rating.Sigma)
	fmt.Fprintf(out, "P(%s wins) = %.4f\n", p.First.ID, p.ExpectedA)
	fmt.Fprintf(out, "P(%s wins) = %.4f\n", p.Second.ID, p.ExpectedB)
	fmt.Fprintf(out, "match quality = %.4f\n", p.Quality)
	return nil
}
