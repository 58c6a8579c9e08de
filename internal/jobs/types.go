package jobs

type JobType string

const (
	JobExportTransactionsCSV JobType = "export_transactions_csv"
)

// check to see if the job type is a known constant

func (t JobType) IsValid() bool {
	switch t {
	case JobExportTransactionsCSV:
		return true
	default:
		return false
	}
}

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobSucceeded  JobStatus = "succeeded"
	JobFailed     JobStatus = "failed"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case JobPending, JobProcessing, JobSucceeded, JobFailed:
		return true
	default:
		return false
	}
}
