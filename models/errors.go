package models

// DomainError carries the dotted code returned to API clients. Handlers
// match them with errors.Is, so every kind is a package-level sentinel.
type DomainError struct {
	Code string
}

func (e *DomainError) Error() string {
	return e.Code
}

var (
	ErrInsufficientFunds  = &DomainError{Code: "account.balance.insufficient_funds"}
	ErrInvalidAmount      = &DomainError{Code: "market.order.invalid_amount"}
	ErrInvalidPair        = &DomainError{Code: "market.order.invalid_pair"}
	ErrMissingPrice       = &DomainError{Code: "market.order.missing_price"}
	ErrNotFound           = &DomainError{Code: "record.not_found"}
	ErrAlreadyFinalized   = &DomainError{Code: "wallet.transaction.already_finalized"}
	ErrAlreadyTerminal    = &DomainError{Code: "market.order.already_terminal"}
	ErrOverfill           = &DomainError{Code: "market.order.overfill"}
	ErrInvariantViolation = &DomainError{Code: "ledger.invariant_violation"}
	ErrStorageUnavailable = &DomainError{Code: "ledger.storage_unavailable"}
)
