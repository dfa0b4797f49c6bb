package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the query surface shared by *pgxpool.Pool, pgx.Tx and pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is a DBTX that can also open transactions.
type Pool interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// Store groups the repositories so a service can run several of them inside
// one transaction.
type Store interface {
	Items() InventoryItemRepository
	Batches() BatchRepository
	Usage() UsedInventoryRepository
	Quotations() QuotationRepository
	PurchaseOrders() PurchaseOrderRepository
	Jobs() JobRepository
	WarrantyClaims() WarrantyClaimRepository

	// WithTx runs fn against a transaction-bound Store. The transaction
	// commits when fn returns nil and rolls back otherwise. Calling WithTx on
	// a Store that is already transactional reuses the open transaction.
	WithTx(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
}

var errNoPool = errors.New("store has no connection pool")

type pgStore struct {
	pool Pool
	db   DBTX
}

func NewStore(pool Pool) Store {
	return &pgStore{pool: pool, db: pool}
}

func (s *pgStore) Items() InventoryItemRepository         { return NewInventoryItemRepo(s.db) }
func (s *pgStore) Batches() BatchRepository                { return NewBatchRepo(s.db) }
func (s *pgStore) Usage() UsedInventoryRepository          { return NewUsedInventoryRepo(s.db) }
func (s *pgStore) Quotations() QuotationRepository         { return NewQuotationRepo(s.db) }
func (s *pgStore) PurchaseOrders() PurchaseOrderRepository { return NewPurchaseOrderRepo(s.db) }
func (s *pgStore) Jobs() JobRepository                     { return NewJobRepo(s.db) }
func (s *pgStore) WarrantyClaims() WarrantyClaimRepository { return NewWarrantyClaimRepo(s.db) }

func (s *pgStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		return fn(s)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&pgStore{db: tx})
	})
}

func (s *pgStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return errNoPool
	}
	return s.pool.Ping(ctx)
}
