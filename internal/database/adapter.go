package database

import (
	"context"

	"github.com/Rana718/ontoseed/internal/types"
)

// ReferenceReader reads the reference data transactions are generated from.
type ReferenceReader interface {
	ListStores(ctx context.Context) ([]types.Store, error)
	ListStaff(ctx context.Context, storeID string) ([]types.StaffMember, error)
	ListProducts(ctx context.Context, t types.StoreType) ([]types.Product, error)
}

// TransactionWriter persists generated transactions. Each insert is a single
// statement that skips rows whose primary key already exists and returns the
// number of rows actually written. TransactionHeaders reads back the stored
// rows for the given identifiers; unknown identifiers are left out.
type TransactionWriter interface {
	InsertPaymentMethods(ctx context.Context, rows []types.PaymentMethod) (int64, error)
	InsertTransactions(ctx context.Context, rows []types.Transaction) (int64, error)
	InsertTransactionLines(ctx context.Context, rows []types.TransactionLine) (int64, error)
	TransactionHeaders(ctx context.Context, ids []string) ([]types.TransactionHeader, error)
}

// ReferenceWriter seeds reference tables with the same insert-if-absent rule.
type ReferenceWriter interface {
	InsertCurrencies(ctx context.Context, rows []types.Currency) (int64, error)
	InsertStoreCategories(ctx context.Context, rows []types.StoreCategory) (int64, error)
	InsertRegions(ctx context.Context, rows []types.Region) (int64, error)
	InsertStores(ctx context.Context, rows []types.Store) (int64, error)
	InsertStaffRoles(ctx context.Context, rows []types.StaffRole) (int64, error)
	InsertStaff(ctx context.Context, rows []types.StaffMember) (int64, error)
	InsertProductCategories(ctx context.Context, rows []types.ProductCategory) (int64, error)
	InsertProducts(ctx context.Context, rows []types.Product) (int64, error)
}

type DatabaseAdapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	// Schema
	ApplySchema(ctx context.Context, ddl string) error
	CountRows(ctx context.Context, table string) (int64, error)

	ReferenceReader
	ReferenceWriter
	TransactionWriter
}

// Tables lists every table in dependency order.
var Tables = []string{
	"currencies",
	"store_categories",
	"regions",
	"stores",
	"staff_roles",
	"staff",
	"product_categories",
	"products",
	"payment_methods",
	"transactions",
	"transaction_items",
}
