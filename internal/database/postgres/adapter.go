package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/ontoseed/internal/database/common"
	"github.com/Rana718/ontoseed/internal/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Adapter struct {
	pool  *pgxpool.Pool
	stmts common.Statements
}

func New() *Adapter {
	return &Adapter{
		stmts: common.NewStatements(squirrel.Dollar, common.OnConflictDoNothing),
	}
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	// Money, dates and times are sent as text; the server needs the parameter
	// types described to cast them.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeDescribeExec

	config.MaxConns = 4
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Adapter) ApplySchema(ctx context.Context, ddl string) error {
	for _, stmt := range common.ParseSQLStatements(ddl) {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}

func (p *Adapter) CountRows(ctx context.Context, table string) (int64, error) {
	query, args, err := p.stmts.CountRows(table)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

func collect[T any](ctx context.Context, pool *pgxpool.Pool, query string, args []interface{}) ([]T, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
}

func (p *Adapter) ListStores(ctx context.Context) ([]types.Store, error) {
	query, args, err := p.stmts.ListStores()
	if err != nil {
		return nil, err
	}
	stores, err := collect[types.Store](ctx, p.pool, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	for i := range stores {
		stores[i].Type = types.ClassifyStore(stores[i].ID, stores[i].DataSource)
	}
	return stores, nil
}

func (p *Adapter) ListStaff(ctx context.Context, storeID string) ([]types.StaffMember, error) {
	query, args, err := p.stmts.ListStaff(storeID)
	if err != nil {
		return nil, err
	}
	staff, err := collect[types.StaffMember](ctx, p.pool, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff for store %s: %w", storeID, err)
	}
	return staff, nil
}

func (p *Adapter) ListProducts(ctx context.Context, t types.StoreType) ([]types.Product, error) {
	query, args, err := p.stmts.ListProducts(t)
	if err != nil {
		return nil, err
	}
	products, err := collect[types.Product](ctx, p.pool, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s products: %w", t, err)
	}
	return products, nil
}

func (p *Adapter) TransactionHeaders(ctx context.Context, ids []string) ([]types.TransactionHeader, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := p.stmts.ListTransactionHeaders(ids)
	if err != nil {
		return nil, err
	}
	headers, err := collect[types.TransactionHeader](ctx, p.pool, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions %s..%s: %w", ids[0], ids[len(ids)-1], err)
	}
	return headers, nil
}

func (p *Adapter) exec(ctx context.Context, what string, n int, query string, args []interface{}, err error) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to build %s insert: %w", what, err)
	}
	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (p *Adapter) InsertCurrencies(ctx context.Context, rows []types.Currency) (int64, error) {
	query, args, err := p.stmts.InsertCurrencies(rows)
	return p.exec(ctx, "currency", len(rows), query, args, err)
}

func (p *Adapter) InsertStoreCategories(ctx context.Context, rows []types.StoreCategory) (int64, error) {
	query, args, err := p.stmts.InsertStoreCategories(rows)
	return p.exec(ctx, "store category", len(rows), query, args, err)
}

func (p *Adapter) InsertRegions(ctx context.Context, rows []types.Region) (int64, error) {
	query, args, err := p.stmts.InsertRegions(rows)
	return p.exec(ctx, "region", len(rows), query, args, err)
}

func (p *Adapter) InsertStores(ctx context.Context, rows []types.Store) (int64, error) {
	query, args, err := p.stmts.InsertStores(rows)
	return p.exec(ctx, "store", len(rows), query, args, err)
}

func (p *Adapter) InsertStaffRoles(ctx context.Context, rows []types.StaffRole) (int64, error) {
	query, args, err := p.stmts.InsertStaffRoles(rows)
	return p.exec(ctx, "staff role", len(rows), query, args, err)
}

func (p *Adapter) InsertStaff(ctx context.Context, rows []types.StaffMember) (int64, error) {
	query, args, err := p.stmts.InsertStaff(rows)
	return p.exec(ctx, "staff", len(rows), query, args, err)
}

func (p *Adapter) InsertProductCategories(ctx context.Context, rows []types.ProductCategory) (int64, error) {
	query, args, err := p.stmts.InsertProductCategories(rows)
	return p.exec(ctx, "product category", len(rows), query, args, err)
}

func (p *Adapter) InsertProducts(ctx context.Context, rows []types.Product) (int64, error) {
	query, args, err := p.stmts.InsertProducts(rows)
	return p.exec(ctx, "product", len(rows), query, args, err)
}

func (p *Adapter) InsertPaymentMethods(ctx context.Context, rows []types.PaymentMethod) (int64, error) {
	query, args, err := p.stmts.InsertPaymentMethods(rows)
	return p.exec(ctx, "payment method", len(rows), query, args, err)
}

func (p *Adapter) InsertTransactions(ctx context.Context, rows []types.Transaction) (int64, error) {
	query, args, err := p.stmts.InsertTransactions(rows)
	return p.exec(ctx, "transaction", len(rows), query, args, err)
}

func (p *Adapter) InsertTransactionLines(ctx context.Context, rows []types.TransactionLine) (int64, error) {
	query, args, err := p.stmts.InsertTransactionLines(rows)
	return p.exec(ctx, "transaction line", len(rows), query, args, err)
}
