package domain

// AuditStatus describes how a line item compares to current stock.
type AuditStatus string

const (
	AuditStatusOK           AuditStatus = "ok"
	AuditStatusInsufficient AuditStatus = "insufficient"
	AuditStatusUnavailable  AuditStatus = "unavailable"
)

// AuditEntry is the stock check result for one line item.
type AuditEntry struct {
	ProductID int64
	Requested int
	Available int
	Status    AuditStatus
	Reason    string
}

// StockAudit reports line items whose amount no longer fits current stock.
// It never changes the cart it was computed from.
type StockAudit struct {
	Entries []AuditEntry
}

// Healthy reports whether every entry is still within stock.
func (a StockAudit) Healthy() bool {
	for _, entry := range a.Entries {
		if entry.Status != AuditStatusOK {
			return false
		}
	}
	return true
}

// CheckLine compares a line item with the stock just observed for it.
func CheckLine(item Product, stock Stock) AuditEntry {
	entry := AuditEntry{
		ProductID: item.ID,
		Requested: item.Amount,
		Available: stock.Amount,
		Status:    AuditStatusOK,
	}
	if stock.Amount < item.Amount {
		entry.Status = AuditStatusInsufficient
	}
	return entry
}

// UnavailableLine records a line item whose stock could not be fetched.
func UnavailableLine(item Product, reason string) AuditEntry {
	return AuditEntry{
		ProductID: item.ID,
		Requested: item.Amount,
		Status:    AuditStatusUnavailable,
		Reason:    reason,
	}
}
