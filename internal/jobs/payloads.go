package jobs

// ExportTransactionsCSVPayload asks the worker to write a CSV export for one
// user. Keep the payload minimal and ID-based; the worker loads rows from DB.
type ExportTransactionsCSVPayload struct {
	UserID    int64  `json:"userId"`
	Filename  string `json:"filename,omitempty"`  // optional override
	RequestID string `json:"requestId,omitempty"` // optional: correlation
}
