package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldSessionID  = "session_id"
	FieldCustomer   = "customer"
	FieldTitle      = "title"
	FieldBorrowed   = "borrowed"
	FieldReturned   = "returned"
	FieldDuration   = "duration_days"
	FieldOverdue    = "overdue_days"
	FieldFineCents  = "fine_cents"
	FieldTotalCents = "total_fine_cents"
	FieldRecords    = "records"
	FieldBackend    = "backend"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldMessageID  = "message_id"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentConsole  = "console"
	ComponentFine     = "fine"
	ComponentLedger   = "ledger"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentNotifier = "notifier"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpOpen      = "open"
	OpAppend    = "append"
	OpRead      = "read"
	OpSummarize = "summarize"
	OpPublish   = "publish"
	OpConsume   = "consume"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithSession(id, customer string) LogFields {
	f[FieldSessionID] = id
	if customer != "" {
		f[FieldCustomer] = customer
	}
	return f
}

// WithError adds error field
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

// WithRecord adds the record's title and dates in D/M/YYYY form
func (f LogFields) WithRecord(title, borrowed, returned string) LogFields {
	f[FieldTitle] = title
	f[FieldBorrowed] = borrowed
	f[FieldReturned] = returned
	return f
}

// WithFine adds computed fine fields
func (f LogFields) WithFine(durationDays, overdueDays, fineCents int64) LogFields {
	f[FieldDuration] = durationDays
	f[FieldOverdue] = overdueDays
	f[FieldFineCents] = fineCents
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
