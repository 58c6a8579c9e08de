package jobs

// ValidatePayload performs minimal validation on decoded payloads.
func ValidatePayload(t JobType, payload any) error {
	if !t.IsValid() {
		return ErrInvalidJobType
	}

	switch t {
	case JobExportTransactionsCSV:
		var p ExportTransactionsCSVPayload
		switch v := payload.(type) {
		case ExportTransactionsCSVPayload:
			p = v
		case *ExportTransactionsCSVPayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if p.UserID <= 0 {
			return ErrInvalidJobPayload
		}
		return nil

	default:
		return ErrInvalidJobType
	}
}
