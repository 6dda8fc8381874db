package semd

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"semdaudit/internal/config"
	"semdaudit/internal/logging"
)

const stuckDocumentsQuery = `SELECT d.NUMBER AS number, d.ID AS id, d.CREATED_AT AS created_at,
       s.ID_USER AS id_user,
       l.STATUS AS status, l.MESSAGE_TYPE AS message_type
FROM EMDR_DOCUMENT d
    JOIN EMDR_DOCUMENT_SIGN s ON s.ID_DOC = d.ID AND s.ID_USER IS NOT NULL
    JOIN EMDR_LOG l ON l.ID_DOC = d.ID AND l.ID =
        (SELECT MAX(ID) FROM EMDR_LOG WHERE ID_DOC = d.ID)
WHERE d.CREATED_AT > ? AND d.KIND IN (?)
ORDER BY s.ID_USER, d.CREATED_AT, d.ID`

// Options controls which documents FindStuck reports.
type Options struct {
	Kinds               []int
	RegisterMessageType string
	QueryTimeout        time.Duration
	Logger              *slog.Logger
}

// Store runs read-only queries against the EMDR tables.
type Store struct {
	db     *sqlx.DB
	opts   Options
	logger *slog.Logger
}

// Open connects to the configured document store and verifies it answers.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	db, err := sqlx.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrConnect, cfg.Database.Driver, err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(1)

	store := New(db, Options{
		Kinds:               cfg.Documents.Kinds,
		RegisterMessageType: cfg.Documents.RegisterMessageType,
		QueryTimeout:        cfg.QueryTimeout(),
		Logger:              logger,
	})
	if err := store.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing connection.
func New(db *sqlx.DB, opts Options) *Store {
	if len(opts.Kinds) == 0 {
		opts.Kinds = append([]int(nil), config.DefaultDocumentKinds...)
	}
	if opts.RegisterMessageType == "" {
		opts.RegisterMessageType = config.DefaultRegisterMessageType
	}
	return &Store{
		db:     db,
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "semd-store"),
	}
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping %s: %w", ErrConnect, s.db.DriverName(), err)
	}
	return nil
}

// FindStuck returns documents created after since whose latest transport log
// entry is still the registration request, ordered by signer and creation time.
func (s *Store) FindStuck(ctx context.Context, since time.Time) ([]StuckRecord, error) {
	query, args, err := sqlx.In(stuckDocumentsQuery, FormatBound(since), s.opts.Kinds)
	if err != nil {
		return nil, fmt.Errorf("%w: expand kinds: %w", ErrQuery, err)
	}
	query = s.db.Rebind(query)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	started := time.Now()
	var candidates []StuckRecord
	if err := s.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	stuck := FilterStuck(candidates, s.opts.RegisterMessageType)
	s.logger.Debug("stuck document query finished",
		logging.String("since", FormatBound(since)),
		logging.Int("candidates", len(candidates)),
		logging.Int("stuck", len(stuck)),
		logging.Duration("query_duration", time.Since(started)),
	)
	return stuck, nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.QueryTimeout)
}

// FilterStuck keeps records whose latest message type equals messageType
// exactly, then orders them by signer and creation time. Ties keep their input
// order.
func FilterStuck(records []StuckRecord, messageType string) []StuckRecord {
	stuck := make([]StuckRecord, 0, len(records))
	for _, record := range records {
		if record.MessageType.Valid && record.MessageType.String == messageType {
			stuck = append(stuck, record)
		}
	}
	sort.SliceStable(stuck, func(i, j int) bool {
		if stuck[i].UserID != stuck[j].UserID {
			return stuck[i].UserID < stuck[j].UserID
		}
		return stuck[i].Created().Before(stuck[j].Created())
	})
	return stuck
}
