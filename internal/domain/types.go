package domain

// Range is an optional half-open [From, To) window on dates (YYYY-MM-DD).
// Empty bounds are open.
type Range struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// RequestContext carries the authenticated admin subject when available.
type RequestContext struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}
