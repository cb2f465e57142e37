package models

// UploadResult reports the outcome of one CSV upload.
type UploadResult struct {
	TransactionsCreated int `json:"transactions_created"`
	DuplicatesSkipped   int `json:"duplicates_skipped"`
	RowsInvalid         int `json:"rows_invalid"`
}

// CategorizeResult reports the outcome of one categorization batch. The batch
// never fails wholesale because individual transactions could not be resolved.
type CategorizeResult struct {
	CategorizedByRule int `json:"categorized_by_rule"`
	CategorizedByAI   int `json:"categorized_by_ai"`
	LeftUncategorized int `json:"left_uncategorized"`
}

// Add accumulates another result into r.
func (r *CategorizeResult) Add(other CategorizeResult) {
	r.CategorizedByRule += other.CategorizedByRule
	r.CategorizedByAI += other.CategorizedByAI
	r.LeftUncategorized += other.LeftUncategorized
}
