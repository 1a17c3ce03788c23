package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldAmountCents = "amount_cents"
	FieldCategoryID  = "category_id"
	FieldAccountID   = "account_id"
	FieldEntryType   = "entry_type"
	FieldWindow      = "window"
	FieldStreak      = "streak"
	FieldSlotKey     = "slot_key"
	FieldFile        = "file"
	FieldCount       = "count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentExport  = "export"
	ComponentCheckIn = "checkin"
	ComponentCache   = "cache"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpCreate = "create"
	OpRead   = "read"
	OpDelete = "delete"
	OpExport = "export"
	OpImport = "import"
)
