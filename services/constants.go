package services

// Status order
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Tipe order
const (
	OrderTypeCustomer = "customer"
	OrderTypeCashier  = "cashier"
)

// Metode pembayaran
const (
	PaymentMethodCash    = "cash"
	PaymentMethodCard    = "card"
	PaymentMethodEWallet = "e-wallet"
)

// Tipe mutasi stok
const (
	StockTypeIn         = "in"
	StockTypeOut        = "out"
	StockTypeAdjustment = "adjustment"
)
