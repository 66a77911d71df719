package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StoreType classifies a store and the product catalog it sells from.
type StoreType int

const (
	StoreTypeUnknown StoreType = iota
	StoreTypeBakery
	StoreTypeCoffeeShop
)

// StoreTypes lists every concrete store type in generation order.
var StoreTypes = []StoreType{StoreTypeBakery, StoreTypeCoffeeShop}

// String returns the data_source tag used in the schema.
func (t StoreType) String() string {
	switch t {
	case StoreTypeBakery:
		return "bakery"
	case StoreTypeCoffeeShop:
		return "coffee_shop"
	default:
		return "unknown"
	}
}

// Prefix is the leading token of transaction identifiers for this store type.
func (t StoreType) Prefix() string {
	switch t {
	case StoreTypeBakery:
		return "B"
	case StoreTypeCoffeeShop:
		return "C"
	default:
		return "X"
	}
}

// StoreIDPrefix is the leading token of store identifiers for this store type.
func (t StoreType) StoreIDPrefix() string {
	switch t {
	case StoreTypeBakery:
		return "BAK"
	case StoreTypeCoffeeShop:
		return "COF"
	default:
		return ""
	}
}

func ParseStoreType(s string) (StoreType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bakery":
		return StoreTypeBakery, nil
	case "coffee_shop", "coffee-shop", "coffeeshop", "coffee shop":
		return StoreTypeCoffeeShop, nil
	default:
		return StoreTypeUnknown, fmt.Errorf("unknown store type: %q", s)
	}
}

// ClassifyStore resolves the store type from its data_source tag, falling back
// to the identifier prefix convention (BAK001, COF002).
func ClassifyStore(storeID, dataSource string) StoreType {
	if t, err := ParseStoreType(dataSource); err == nil {
		return t
	}
	id := strings.ToUpper(storeID)
	for _, t := range StoreTypes {
		if strings.HasPrefix(id, t.StoreIDPrefix()) {
			return t
		}
	}
	return StoreTypeUnknown
}

type Currency struct {
	Code   string `db:"currency_code" yaml:"code"`
	Name   string `db:"currency_name" yaml:"name"`
	Symbol string `db:"symbol" yaml:"symbol"`
}

type StoreCategory struct {
	ID          int    `db:"category_id" yaml:"id"`
	Name        string `db:"category_name" yaml:"name"`
	Description string `db:"description" yaml:"description"`
}

type Region struct {
	ID      int    `db:"region_id" yaml:"id"`
	Name    string `db:"region_name" yaml:"name"`
	Country string `db:"country" yaml:"country"`
}

type Store struct {
	ID          string    `db:"store_id"`
	Name        string    `db:"store_name"`
	CategoryID  int       `db:"category_id"`
	RegionID    int       `db:"region_id"`
	Address     string    `db:"address"`
	Phone       string    `db:"phone"`
	OpeningDate string    `db:"opening_date"`
	DataSource  string    `db:"data_source"`
	Type        StoreType `db:"-"`
}

type StaffRole struct {
	ID         int             `db:"role_id" yaml:"id"`
	Name       string          `db:"role_name" yaml:"name"`
	HourlyRate decimal.Decimal `db:"hourly_rate" yaml:"-"`
}

// StaffMember belongs to exactly one store.
type StaffMember struct {
	ID        string `db:"staff_id"`
	StoreID   string `db:"store_id"`
	RoleID    int    `db:"role_id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Email     string `db:"email"`
	HireDate  string `db:"hire_date"`
}

type ProductCategory struct {
	ID          int    `db:"category_id" yaml:"id"`
	Name        string `db:"category_name" yaml:"name"`
	Description string `db:"description" yaml:"description"`
}

// Product is read-only input to generation. BasePrice is snapshotted onto
// every line that sells it.
type Product struct {
	ID           string          `db:"product_id"`
	Name         string          `db:"product_name"`
	CategoryID   int             `db:"category_id"`
	TypeName     string          `db:"type_name"`
	Detail       string          `db:"detail"`
	BasePrice    decimal.Decimal `db:"base_price"`
	CurrencyCode string          `db:"currency_code"`
	IsSeasonal   bool            `db:"is_seasonal"`
	IsActive     bool            `db:"is_active"`
	DataSource   string          `db:"data_source"`
}

type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentCreditCard    PaymentMethod = "credit_card"
	PaymentDebitCard     PaymentMethod = "debit_card"
	PaymentMobilePayment PaymentMethod = "mobile_payment"
)

// PaymentMethods is the fixed set in descending expected frequency.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentMobilePayment}

func (p PaymentMethod) DisplayName() string {
	switch p {
	case PaymentCash:
		return "Cash"
	case PaymentCreditCard:
		return "Credit Card"
	case PaymentDebitCard:
		return "Debit Card"
	case PaymentMobilePayment:
		return "Mobile Payment"
	default:
		return string(p)
	}
}

func (p PaymentMethod) Description() string {
	switch p {
	case PaymentCash:
		return "Physical currency"
	case PaymentCreditCard:
		return "Visa, MasterCard, Amex, etc."
	case PaymentDebitCard:
		return "Bank cards that deduct directly from accounts"
	case PaymentMobilePayment:
		return "Apple Pay, Google Pay, etc."
	default:
		return ""
	}
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Transaction is created once per basket and never mutated.
type Transaction struct {
	ID            string
	StoreID       string
	OccurredAt    time.Time
	PaymentMethod PaymentMethod
	StaffID       string
	TotalAmount   decimal.Decimal
	CurrencyCode  string
	DataSource    string
	Lines         []TransactionLine
}

func (t Transaction) Date() string { return t.OccurredAt.Format(DateLayout) }

func (t Transaction) Time() string { return t.OccurredAt.Format(TimeLayout) }

// TransactionHeader is the part of a stored transaction row used to tell
// whether an existing identifier holds the same transaction.
type TransactionHeader struct {
	ID            string          `db:"transaction_id"`
	StoreID       string          `db:"store_id"`
	StaffID       string          `db:"staff_id"`
	PaymentMethod PaymentMethod   `db:"payment_method_id"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
}

func (t Transaction) Header() TransactionHeader {
	return TransactionHeader{
		ID:            t.ID,
		StoreID:       t.StoreID,
		StaffID:       t.StaffID,
		PaymentMethod: t.PaymentMethod,
		TotalAmount:   t.TotalAmount,
	}
}

// Matches reports whether h is the stored row of tx.
func (h TransactionHeader) Matches(tx Transaction) bool {
	return h.ID == tx.ID &&
		h.StoreID == tx.StoreID &&
		h.StaffID == tx.StaffID &&
		h.PaymentMethod == tx.PaymentMethod &&
		h.TotalAmount.Equal(tx.TotalAmount)
}

// TransactionLine is one product within a transaction. UnitPrice is the
// product's base price at generation time.
type TransactionLine struct {
	ID              string
	TransactionID   string
	ProductID       string
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent int
	LineTotal       decimal.Decimal
}
