package log

import "smartbudget/internal/core"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldOperation   = "operation"
	FieldCollection  = "collection"
	FieldPosition    = "position"
	FieldTxID        = "transaction_id"
	FieldDate        = "date"
	FieldKind        = "kind"
	FieldCategory    = "category"
	FieldAmount      = "amount"
	FieldLimit       = "limit"
	FieldEventID     = "event_id"
	FieldPeriod      = "period"
	FieldBackend     = "backend"
	FieldDuration    = "duration_ms"
	FieldRecordCount = "records"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentCLI         = "cli"
	ComponentBudget      = "budget"
	ComponentTransaction = "transaction"
	ComponentReport      = "report"
	ComponentAMQP        = "amqp"
	ComponentWorker      = "worker"
	ComponentBackend     = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpReport   = "report"
	OpConsume  = "consume"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeStorage    = "storage_error"
	ErrorTypeNetwork    = "network_error"
	ErrorTypeNotFound   = "not_found_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

func (f LogFields) WithCollection(collection string, position int) LogFields {
	f[FieldCollection] = collection
	if position > 0 {
		f[FieldPosition] = position
	}
	return f
}

// WithTransaction adds the identifying fields of a transaction. The
// description is left out; it is free text typed by the user.
func (f LogFields) WithTransaction(t core.Transaction) LogFields {
	f[FieldTxID] = t.ID
	f[FieldDate] = t.Date.String()
	f[FieldKind] = string(t.Kind)
	f[FieldCategory] = string(t.Category)
	f[FieldAmount] = t.Amount.String()
	return f
}

func (f LogFields) WithBudget(b core.BudgetEntry) LogFields {
	f[FieldCategory] = string(b.Category)
	f[FieldLimit] = b.Limit.String()
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
