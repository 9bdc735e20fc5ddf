package core

// BalanceDelta is a storage-level signed increment against one wallet.
// Expressing balance moves as increments instead of read-then-write
// keeps the store free of lost updates.
type BalanceDelta struct {
	WalletID string
	Cents    int64
}

// ChangeSet is the atomic unit of work every ledger mutation goes
// through. A store applies all of it or none of it; deltas are applied
// in listed order (the composing service puts the debit leg first) so
// that even a non-transactional store fails in a deterministic,
// recoverable position.
type ChangeSet struct {
	OwnerID string

	PutTransactions      []Transaction
	DeleteTransactionIDs []string
	PutDebts             []Debt
	DeleteDebtIDs        []string
	DeleteWalletIDs      []string
	Deltas               []BalanceDelta
}

func (cs ChangeSet) Empty() bool {
	return len(cs.PutTransactions) == 0 &&
		len(cs.DeleteTransactionIDs) == 0 &&
		len(cs.PutDebts) == 0 &&
		len(cs.DeleteDebtIDs) == 0 &&
		len(cs.DeleteWalletIDs) == 0 &&
		len(cs.Deltas) == 0
}

// Steps counts the individual mutations in the set, used by stores to
// report how far a partial application got.
func (cs ChangeSet) Steps() int {
	return len(cs.PutTransactions) + len(cs.DeleteTransactionIDs) +
		len(cs.PutDebts) + len(cs.DeleteDebtIDs) +
		len(cs.DeleteWalletIDs) + len(cs.Deltas)
}
