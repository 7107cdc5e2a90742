package ports

import "context"

// Operation names the cart entry point that produced a notification.
type Operation string

const (
	OperationAdd    Operation = "add_product"
	OperationRemove Operation = "remove_product"
	OperationUpdate Operation = "update_amount"
)

// Kind classifies why an operation failed.
type Kind string

const (
	KindOutOfStock         Kind = "out_of_stock"
	KindNotFound           Kind = "not_found"
	KindRemoteFailure      Kind = "remote_failure"
	KindPersistenceFailure Kind = "persistence_failure"
	KindUnknown            Kind = "unknown"
)

// Notification is a transient, user-facing failure report.
type Notification struct {
	Operation Operation
	ProductID int64
	Kind      Kind
	Message   string
}

// Notifier displays notifications. It is fire-and-forget.
type Notifier interface {
	ReportError(ctx context.Context, n Notification)
}

// NoopNotifier discards every notification.
var NoopNotifier Notifier = noopNotifier{}

type noopNotifier struct{}

func (noopNotifier) ReportError(context.Context, Notification) {}
