package dberr

// Per-throw-site codes. Each is a 12-hex-digit identifier, unique per call
// site as required by spec.md §3 ("the code is a unique identifier per
// throw site"). Grouped by the package that raises them so a code can be
// traced back to its origin without a stack trace.

const (
	// registry
	CodeRegistryNoDriverAccepts = "100000000001"
	CodeRegistryURLParseFailed  = "100000000002"

	// pool — borrow path
	CodePoolClosed         = "200000000001"
	CodePoolBorrowTimeout  = "200000000002"
	CodePoolCreateFailed   = "200000000003"
	CodePoolValidationExhausted = "200000000004"

	// pool — handle wrapper
	CodeHandleClosed = "210000000001"

	// relational contracts
	CodeRelInvalidParamIndex = "300000000001"
	CodeRelInvalidColumn     = "300000000002"
	CodeRelStatementClosed   = "300000000003"
	CodeRelResultSetClosed   = "300000000004"

	// document contracts
	CodeDocCursorClosed  = "400000000001"
	CodeDocRewindRefused = "400000000002"

	// columnar contracts
	CodeColTxNotSupported = "500000000001"
	CodeColInvalidColumn  = "500000000002"

	// drivers (generic backend-error wrapping)
	CodeDriverConnectFailed = "600000000001"
	CodeDriverBackendError  = "600000000002"
)
