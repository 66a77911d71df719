package common

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/ontoseed/internal/types"
	"github.com/shopspring/decimal"
)

// ConflictClause renders the insert-if-absent suffix for a primary key column.
type ConflictClause func(pk string) string

// OnConflictDoNothing is the PostgreSQL and SQLite form.
func OnConflictDoNothing(pk string) string {
	return fmt.Sprintf("ON CONFLICT (%s) DO NOTHING", pk)
}

// OnDuplicateKeyNoop is the MySQL form. Unlike INSERT IGNORE it still
// surfaces foreign key and check violations.
func OnDuplicateKeyNoop(pk string) string {
	return fmt.Sprintf("ON DUPLICATE KEY UPDATE %s = %s", pk, pk)
}

// Statements builds every query the adapters run, for one SQL dialect.
type Statements struct {
	qb       squirrel.StatementBuilderType
	conflict ConflictClause
}

func NewStatements(placeholder squirrel.PlaceholderFormat, conflict ConflictClause) Statements {
	return Statements{
		qb:       squirrel.StatementBuilder.PlaceholderFormat(placeholder),
		conflict: conflict,
	}
}

func (s Statements) insert(table, pk string, columns ...string) squirrel.InsertBuilder {
	return s.qb.Insert(table).Columns(columns...).Suffix(s.conflict(pk))
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// optional maps an empty string to SQL NULL.
func optional(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func (s Statements) ListStores() (string, []interface{}, error) {
	return s.qb.Select("store_id", "store_name", "category_id", "region_id", "data_source").
		From("stores").OrderBy("store_id").ToSql()
}

func (s Statements) ListStaff(storeID string) (string, []interface{}, error) {
	return s.qb.Select("staff_id", "store_id", "role_id", "first_name", "last_name").
		From("staff").Where(squirrel.Eq{"store_id": storeID}).OrderBy("staff_id").ToSql()
}

func (s Statements) ListProducts(t types.StoreType) (string, []interface{}, error) {
	return s.qb.Select("product_id", "product_name", "category_id", "type_name", "base_price", "currency_code", "data_source").
		From("products").Where(squirrel.Eq{"data_source": t.String()}).OrderBy("product_id").ToSql()
}

func (s Statements) ListTransactionHeaders(ids []string) (string, []interface{}, error) {
	return s.qb.Select("transaction_id", "store_id", "staff_id", "payment_method_id", "total_amount").
		From("transactions").Where(squirrel.Eq{"transaction_id": ids}).OrderBy("transaction_id").ToSql()
}

func (s Statements) CountRows(table string) (string, []interface{}, error) {
	if !IsValidIdentifier(table) {
		return "", nil, fmt.Errorf("invalid table name: %s", table)
	}
	return s.qb.Select("COUNT(*)").From(table).ToSql()
}

func (s Statements) InsertCurrencies(rows []types.Currency) (string, []interface{}, error) {
	q := s.insert("currencies", "currency_code", "currency_code", "currency_name", "symbol")
	for _, r := range rows {
		q = q.Values(r.Code, r.Name, r.Symbol)
	}
	return q.ToSql()
}

func (s Statements) InsertStoreCategories(rows []types.StoreCategory) (string, []interface{}, error) {
	q := s.insert("store_categories", "category_id", "category_id", "category_name", "description")
	for _, r := range rows {
		q = q.Values(r.ID, r.Name, r.Description)
	}
	return q.ToSql()
}

func (s Statements) InsertRegions(rows []types.Region) (string, []interface{}, error) {
	q := s.insert("regions", "region_id", "region_id", "region_name", "country")
	for _, r := range rows {
		q = q.Values(r.ID, r.Name, r.Country)
	}
	return q.ToSql()
}

func (s Statements) InsertStores(rows []types.Store) (string, []interface{}, error) {
	q := s.insert("stores", "store_id",
		"store_id", "store_name", "category_id", "region_id", "address", "phone", "opening_date", "data_source")
	for _, r := range rows {
		q = q.Values(r.ID, r.Name, r.CategoryID, r.RegionID, optional(r.Address), optional(r.Phone), optional(r.OpeningDate), r.DataSource)
	}
	return q.ToSql()
}

func (s Statements) InsertStaffRoles(rows []types.StaffRole) (string, []interface{}, error) {
	q := s.insert("staff_roles", "role_id", "role_id", "role_name", "hourly_rate")
	for _, r := range rows {
		q = q.Values(r.ID, r.Name, money(r.HourlyRate))
	}
	return q.ToSql()
}

func (s Statements) InsertStaff(rows []types.StaffMember) (string, []interface{}, error) {
	q := s.insert("staff", "staff_id",
		"staff_id", "store_id", "role_id", "first_name", "last_name", "email", "hire_date")
	for _, r := range rows {
		q = q.Values(r.ID, r.StoreID, r.RoleID, r.FirstName, r.LastName, optional(r.Email), optional(r.HireDate))
	}
	return q.ToSql()
}

func (s Statements) InsertProductCategories(rows []types.ProductCategory) (string, []interface{}, error) {
	q := s.insert("product_categories", "category_id", "category_id", "category_name", "description")
	for _, r := range rows {
		q = q.Values(r.ID, r.Name, r.Description)
	}
	return q.ToSql()
}

func (s Statements) InsertProducts(rows []types.Product) (string, []interface{}, error) {
	q := s.insert("products", "product_id",
		"product_id", "product_name", "category_id", "type_name", "detail", "base_price",
		"currency_code", "is_seasonal", "is_active", "data_source")
	for _, r := range rows {
		q = q.Values(r.ID, r.Name, r.CategoryID, r.TypeName, optional(r.Detail), money(r.BasePrice),
			r.CurrencyCode, r.IsSeasonal, r.IsActive, r.DataSource)
	}
	return q.ToSql()
}

func (s Statements) InsertPaymentMethods(rows []types.PaymentMethod) (string, []interface{}, error) {
	q := s.insert("payment_methods", "method_id", "method_id", "method_name", "description")
	for _, m := range rows {
		q = q.Values(string(m), m.DisplayName(), m.Description())
	}
	return q.ToSql()
}

func (s Statements) InsertTransactions(rows []types.Transaction) (string, []interface{}, error) {
	q := s.insert("transactions", "transaction_id",
		"transaction_id", "store_id", "transaction_date", "transaction_time", "payment_method_id",
		"staff_id", "total_amount", "currency_code", "data_source")
	for _, tx := range rows {
		q = q.Values(tx.ID, tx.StoreID, tx.Date(), tx.Time(), string(tx.PaymentMethod),
			tx.StaffID, money(tx.TotalAmount), tx.CurrencyCode, tx.DataSource)
	}
	return q.ToSql()
}

func (s Statements) InsertTransactionLines(rows []types.TransactionLine) (string, []interface{}, error) {
	q := s.insert("transaction_items", "sale_id",
		"sale_id", "transaction_id", "product_id", "quantity", "unit_price", "discount_percent", "item_total")
	for _, l := range rows {
		q = q.Values(l.ID, l.TransactionID, l.ProductID, l.Quantity, money(l.UnitPrice), l.DiscountPercent, money(l.LineTotal))
	}
	return q.ToSql()
}
