package log

// Common field names for structured logging
const (
	FieldComponent      = "component"
	FieldOperation      = "operation"
	FieldError          = "error"
	FieldErrorType      = "error_type"
	FieldTransactionID  = "transaction_id"
	FieldTitle          = "title"
	FieldAmountCents    = "amount_cents"
	FieldCategory       = "category"
	FieldType           = "type"
	FieldDate           = "date"
	FieldAvailableCents = "available_cents"
	FieldOpeningCents   = "opening_cents"
	FieldCount          = "count"
	FieldBackend        = "backend"
	FieldKey            = "key"
	FieldPath           = "path"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentBackend = "backend"
	ComponentCLI     = "cli"
	ComponentConfig  = "config"
)

// Operations defines standard operation names
const (
	OpCreate     = "create"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpLoad       = "load"
	OpPersist    = "persist"
	OpDeposit    = "deposit"
	OpSetBalance = "set_balance"
	OpMigrate    = "migrate"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation        = "validation_error"
	ErrorTypeInsufficientFunds = "insufficient_funds_error"
	ErrorTypeNotFound          = "not_found_error"
	ErrorTypeStorage           = "storage_error"
	ErrorTypeCorruptData       = "corrupt_data_error"
	ErrorTypeConfiguration     = "configuration_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithTransaction adds transaction-related fields
func (f LogFields) WithTransaction(id, title string, amountCents int64, category, typ, date string) LogFields {
	f[FieldTransactionID] = id
	f[FieldTitle] = title
	f[FieldAmountCents] = amountCents
	f[FieldCategory] = category
	f[FieldType] = typ
	f[FieldDate] = date
	return f
}

// WithBalance adds wallet balance fields
func (f LogFields) WithBalance(openingCents, availableCents int64) LogFields {
	f[FieldOpeningCents] = openingCents
	f[FieldAvailableCents] = availableCents
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
