package model

// Organization is immutable reference data. Documents point at one as sender
// and one as recipient.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Actor is the caller of an operation. Identity is resolved upstream; the
// service only trusts the user and organization ids it is handed.
type Actor struct {
	UserID string `json:"user_id"`
	OrgID  string `json:"org_id"`
}
