package types

type OrderSide = string

var (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

type OrderKind = string

var (
	KindLimit  OrderKind = "limit"
	KindMarket OrderKind = "market"
)

type OrderStatus = string

var (
	OrderOpen      OrderStatus = "open"
	OrderPartial   OrderStatus = "partial"
	OrderFilled    OrderStatus = "filled"
	OrderCancelled OrderStatus = "cancelled"
)

type TransactionKind = string

var (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

type TransactionStatus = string

var (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionRejected  TransactionStatus = "rejected"
	TransactionCancelled TransactionStatus = "cancelled"
)

type ApproveDecision = string

var (
	DecisionApprove ApproveDecision = "approve"
	DecisionReject  ApproveDecision = "reject"
)

type OrderBy = string

var (
	OrderByAsc  OrderBy = "asc"
	OrderByDesc OrderBy = "desc"
)

type PriceFeed = string

var (
	// FeedManual assets are repriced only through the admin surface.
	FeedManual PriceFeed = "manual"
	// FeedMarket assets are repriced by the market price cron job.
	FeedMarket PriceFeed = "market"
)
