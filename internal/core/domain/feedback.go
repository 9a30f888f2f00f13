package domain

// Feedback is an operator's rating of a generated summary. Message and email
// are optional; rating is always sent.
type Feedback struct {
	Message string `json:"message,omitempty"`
	Email   string `json:"email,omitempty"`
	Rating  int    `json:"rating"`
}
