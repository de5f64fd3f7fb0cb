package entity

// QuotaStatus is a read-only snapshot of today's search budget.
type QuotaStatus struct {
	Used      int64 `json:"used"`
	Remaining int64 `json:"remaining"`
	Limit     int64 `json:"limit"`
}
