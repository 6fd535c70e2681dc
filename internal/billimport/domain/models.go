package domain

// RowError describes one rejected data row. LineNumber counts data rows only,
// starting at 1; a header line is not counted.
type RowError struct {
	LineNumber   int    `json:"lineNumber"`
	RawLine      string `json:"rawLine"`
	ErrorMessage string `json:"errorMessage"`
}

type BatchResult struct {
	BatchID      string     `json:"batchId"`
	TotalLines   int        `json:"totalLines"`
	SuccessCount int        `json:"successCount"`
	ErrorCount   int        `json:"errorCount"`
	Errors       []RowError `json:"errors"`
}

const (
	MsgColumnCount        = "Line must have 4 columns: SubscriberNo,Year,Month,TotalAmount"
	MsgInvalidFormat      = "Year, Month or TotalAmount has invalid format. (Use dot for decimals)"
	MsgNonPositiveAmount  = "TotalAmount must be greater than zero."
	MsgPeriodOutOfRange   = "Year must be between 2000 and 2100 and Month between 1 and 12."
	MsgSubscriberNotFound = "Subscriber not found: %s"
	MsgDuplicateBill      = "Bill already exists for this subscriber and month."
)
