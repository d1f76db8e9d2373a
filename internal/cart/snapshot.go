package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotLine is one cart line captured at checkout-commit time, with
// its subtotal precomputed for the caller.
type SnapshotLine struct {
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Snapshot is the full cart state at checkout-commit time. It is what
// a downstream order or payment collaborator receives; the ledger
// itself is cleared once the snapshot is taken.
type Snapshot struct {
	Lines      []SnapshotLine  `json:"lines"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
	CapturedAt time.Time       `json:"captured_at"`
}

// Snapshot captures the ledger's lines, per-line subtotals, and grand
// total as of now.
func (g Ledger) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Lines:      make([]SnapshotLine, len(g.Lines)),
		Total:      g.Total(),
		Currency:   g.Currency,
		CapturedAt: now,
	}
	for i, line := range g.Lines {
		snap.Lines[i] = SnapshotLine{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal(),
		}
	}
	return snap
}
