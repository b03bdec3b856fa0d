package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldKey        = "key"
	FieldBytes      = "bytes"
	FieldID         = "id"
	FieldName       = "name"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldType       = "type"
	FieldTimePeriod = "time_period"
	FieldMonth      = "month"
	FieldCount      = "count"
	FieldMatched    = "matched"
	FieldBackend    = "backend"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentTargets = "targets"
	ComponentPersist = "persist"
	ComponentStorage = "storage"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpUpsert   = "upsert"
	OpLoad     = "load"
	OpSave     = "save"
	OpValidate = "validate"
	OpStartup  = "startup"
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

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds transaction fields. Amount is passed preformatted.
func (f LogFields) WithTransaction(id int64, name, category, amount, typ string) LogFields {
	f[FieldID] = id
	f[FieldName] = name
	f[FieldCategory] = category
	f[FieldAmount] = amount
	f[FieldType] = typ
	return f
}

// WithTarget adds budget/goal fields
func (f LogFields) WithTarget(category, period, amount, typ string) LogFields {
	f[FieldCategory] = category
	f[FieldTimePeriod] = period
	f[FieldAmount] = amount
	f[FieldType] = typ
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
