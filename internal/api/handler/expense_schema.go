package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// createExpenseRequest is the POST /expenses payload. Amount must be a JSON
// number; a non-numeric value fails at bind time. Date is optional and
// accepts RFC 3339 or a plain calendar date.
type createExpenseRequest struct {
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date,omitempty"`
}

// expenseResponse is the transport view of a ledger entry. Owned by the
// handler layer so the JSON contract does not track internal changes.
type expenseResponse struct {
	ID       string    `json:"id"`
	OwnerID  string    `json:"owner_id"`
	Title    string    `json:"title"`
	Amount   float64   `json:"amount"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
}

type deleteExpenseResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// dateLayouts are the accepted formats for the optional date field, tried in
// order. The HTML date input sends 2006-01-02.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
