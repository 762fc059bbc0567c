package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KaramelBytes/spreaddash-cli/internal/csvload"
	"github.com/KaramelBytes/spreaddash-cli/internal/dataset"
	"github.com/KaramelBytes/spreaddash-cli/internal/regression"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Sources names the three dashboard datasets. Any empty source is skipped and
// its holder keeps an empty slice.
type Sources struct {
	Master     string
	Spreads    string
	Regression string
}

// Store is one dashboard session's loaded data. Each holder is replaced as a
// whole; readers share the slices and must not modify them.
type Store struct {
	SessionID    string
	Master       *Holder[[]dataset.MasterRow]
	Spreads      *Holder[[]dataset.SpreadRow]
	Coefficients *Holder[[]regression.Coefficient]
	Loaded       *Holder[bool]

	logger *slog.Logger
}

// New returns an empty, not-yet-loaded store.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		SessionID:    uuid.NewString(),
		Master:       NewHolder([]dataset.MasterRow{}),
		Spreads:      NewHolder([]dataset.SpreadRow{}),
		Coefficients: NewHolder([]regression.Coefficient{}),
		Loaded:       NewHolder(false),
	}
	s.logger = logger.With(slog.String("session_id", s.SessionID))
	return s
}

// Reset restores the initial empty state.
func (s *Store) Reset() {
	s.Loaded.Set(false)
	s.Master.Set([]dataset.MasterRow{})
	s.Spreads.Set([]dataset.SpreadRow{})
	s.Coefficients.Set([]regression.Coefficient{})
}

// Load fetches and decodes every source, then publishes all of them and marks
// the store loaded. On any error nothing is published.
func (s *Store) Load(ctx context.Context, l *csvload.Loader, src Sources, opt dataset.DecodeOptions) error {
	start := time.Now()
	var (
		master []dataset.MasterRow
		spread []dataset.SpreadRow
		coefs  []regression.Coefficient
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := loadOptional(gctx, l, src.Master)
		if err != nil {
			return fmt.Errorf("master: %w", err)
		}
		master, err = dataset.DecodeMaster(t, opt)
		if err != nil {
			return fmt.Errorf("master: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		t, err := loadOptional(gctx, l, src.Spreads)
		if err != nil {
			return fmt.Errorf("spreads: %w", err)
		}
		spread, err = dataset.DecodeSpreads(t, opt)
		if err != nil {
			return fmt.Errorf("spreads: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		t, err := loadOptional(gctx, l, src.Regression)
		if err != nil {
			return fmt.Errorf("regression: %w", err)
		}
		if t != nil {
			coefs = regression.ParseCoefficients(t.Rows)
		} else {
			coefs = []regression.Coefficient{}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "dataset load failed", slog.Any("error", err))
		return err
	}

	s.Master.Set(master)
	s.Spreads.Set(spread)
	s.Coefficients.Set(coefs)
	s.Loaded.Set(true)
	s.logger.InfoContext(ctx, "datasets loaded",
		slog.Int("master_rows", len(master)),
		slog.Int("spread_rows", len(spread)),
		slog.Int("coefficients", len(coefs)),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

func loadOptional(ctx context.Context, l *csvload.Loader, source string) (*csvload.Table, error) {
	if source == "" {
		return nil, nil
	}
	return l.Load(ctx, source)
}
