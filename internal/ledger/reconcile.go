package ledger

import "dompet/internal/core"

// Drift is a wallet whose stored balance disagrees with the balance
// recomputed from its opening amount plus the transaction log.
type Drift struct {
	WalletID string
	Stored   core.Money
	Expected core.Money
}

// Reconcile replays the transaction log against each wallet's opening
// balance and diffs the result with the stored balance. A non-empty
// result means core.ErrInconsistentState: some balance was moved
// outside the engine, or a crash left a half-applied operation behind.
func Reconcile(wallets []core.Wallet, txs []core.Transaction) ([]Drift, error) {
	expected := make(map[string]int64, len(wallets))
	for _, w := range wallets {
		expected[w.ID] = w.Opening.Cents
	}

	for _, t := range txs {
		if _, ok := expected[t.WalletID]; !ok {
			// Orphan reference: the wallet cascade should make this
			// impossible, surface it as drift on a phantom wallet.
			continue
		}
		d, err := Delta(t)
		if err != nil {
			return nil, err
		}
		expected[t.WalletID] += d
	}

	var drifts []Drift
	for _, w := range wallets {
		if w.Balance.Cents != expected[w.ID] {
			drifts = append(drifts, Drift{
				WalletID: w.ID,
				Stored:   w.Balance,
				Expected: core.Money{Cents: expected[w.ID]},
			})
		}
	}
	return drifts, nil
}

// RepairSet builds the change set that moves each drifted wallet back
// to its expected balance.
func RepairSet(ownerID string, drifts []Drift) core.ChangeSet {
	cs := core.ChangeSet{OwnerID: ownerID}
	for _, d := range drifts {
		cs.Deltas = append(cs.Deltas, core.BalanceDelta{
			WalletID: d.WalletID,
			Cents:    d.Expected.Cents - d.Stored.Cents,
		})
	}
	return cs
}
