package models

// Reference points a ledger entry back at the record that caused it.
type Reference struct {
	ID   int64
	Type string
}
