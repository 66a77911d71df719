package common

import (
	"context"
	"fmt"

	"github.com/Rana718/ontoseed/internal/types"
	"github.com/jmoiron/sqlx"
)

// SQLStore implements the data operations shared by the database/sql backed
// adapters (MySQL, SQLite) on top of sqlx.
type SQLStore struct {
	DB    *sqlx.DB
	Stmts Statements
}

type builder func() (string, []interface{}, error)

func (s *SQLStore) exec(ctx context.Context, what string, n int, build builder) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	query, args, err := build()
	if err != nil {
		return 0, fmt.Errorf("failed to build %s insert: %w", what, err)
	}
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLStore) ApplySchema(ctx context.Context, ddl string) error {
	for _, stmt := range ParseSQLStatements(ddl) {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) CountRows(ctx context.Context, table string) (int64, error) {
	query, args, err := s.Stmts.CountRows(table)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := s.DB.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

func (s *SQLStore) ListStores(ctx context.Context) ([]types.Store, error) {
	query, args, err := s.Stmts.ListStores()
	if err != nil {
		return nil, err
	}
	var stores []types.Store
	if err := s.DB.SelectContext(ctx, &stores, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	for i := range stores {
		stores[i].Type = types.ClassifyStore(stores[i].ID, stores[i].DataSource)
	}
	return stores, nil
}

func (s *SQLStore) ListStaff(ctx context.Context, storeID string) ([]types.StaffMember, error) {
	query, args, err := s.Stmts.ListStaff(storeID)
	if err != nil {
		return nil, err
	}
	var staff []types.StaffMember
	if err := s.DB.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list staff for store %s: %w", storeID, err)
	}
	return staff, nil
}

func (s *SQLStore) ListProducts(ctx context.Context, t types.StoreType) ([]types.Product, error) {
	query, args, err := s.Stmts.ListProducts(t)
	if err != nil {
		return nil, err
	}
	var products []types.Product
	if err := s.DB.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list %s products: %w", t, err)
	}
	return products, nil
}

func (s *SQLStore) TransactionHeaders(ctx context.Context, ids []string) ([]types.TransactionHeader, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := s.Stmts.ListTransactionHeaders(ids)
	if err != nil {
		return nil, err
	}
	var headers []types.TransactionHeader
	if err := s.DB.SelectContext(ctx, &headers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to read transactions %s..%s: %w", ids[0], ids[len(ids)-1], err)
	}
	return headers, nil
}

func (s *SQLStore) InsertCurrencies(ctx context.Context, rows []types.Currency) (int64, error) {
	return s.exec(ctx, "currency", len(rows), func() (string, []interface{}, error) { return s.Stmts.InsertCurrencies(rows) })
}

func (s *SQLStore) InsertStoreCategories(ctx context.Context, rows []types.StoreCategory) (int64, error) {
	return s.exec(ctx, "store category", len(rows), func() (string, []interface{}, error) { return s.Stmts.InsertStoreCategories(rows) })
}

func (s *SQLStore) InsertRegions(ctx context.Context, rows []types.Region) (int64, error) {
	return s.exec(ctx, "region", len(rows), func() (string, []interface{}, error) { return s.Stmts.InsertRegions(rows) })
}

func (s *SQLStore) InsertStores(ctx context.Context, rows []types.Store) (int64, error) {
	return s.exec(ctx, "store", len(rows), func() (string, []interface{}, error) { return s.Stmts.InsertStores(rows) })
}

func (s *SQLStore) InsertStaffRoles(ctx context.Context, rows []types.StaffRole) (int64, error) {
	return s.exec(ctx, "staff role", len(rows), func() (string, []interface{}, error) { return s.Stmts.InsertStaffRoles(rows) })
}

func (s *SQLStore) InsertStaff(ctx context.Context, rows []types.StaffMember) (int64, error) {
	return s.exec(ctx, "staff", len(rows), func() (string, []interface{}, error) { return s.Stmts.InsertStaff(rows) })
}

func (s *SQLStore) InsertProductCategories(ctx context.Context, rows []types.ProductCategory) (int64, error) {
	return s.exec(ctx, "product category", len(rows), func() (string, []interface{}, error) { return s.Stmts.InsertProductCategories(rows) })
}

func (s *SQLStore) InsertProducts(ctx context.Context, rows []types.Product) (int64, error) {
	return s.exec(ctx, "product", len(rows), func() (string, []interface{}, error) { return s.Stmts.InsertProducts(rows) })
}

func (s *SQLStore) InsertPaymentMethods(ctx context.Context, rows []types.PaymentMethod) (int64, error) {
	return s.exec(ctx, "payment method", len(rows), func() (string, []interface{}, error) { return s.Stmts.InsertPaymentMethods(rows) })
}

func (s *SQLStore) InsertTransactions(ctx context.Context, rows []types.Transaction) (int64, error) {
	return s.exec(ctx, "transaction", len(rows), func() (string, []interface{}, error) { return s.Stmts.InsertTransactions(rows) })
}

func (s *SQLStore) InsertTransactionLines(ctx context.Context, rows []types.TransactionLine) (int64, error) {
	return s.exec(ctx, "transaction line", len(rows), func() (string, []interface{}, error) { return s.Stmts.InsertTransactionLines(rows) })
}
