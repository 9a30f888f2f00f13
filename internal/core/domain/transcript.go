package domain

// TranscriptionRequest is the wire shape of one transcription call.
type TranscriptionRequest struct {
	RecordURL    string `json:"record_url"`
	MobileNumber string `json:"mobile_number"`
	CallID       string `json:"call_id"`
}

// BatchTranscription is the outcome of a bulk run: transcripts keyed by
// display key, one labeled error per failed item, and the final progress
// percentage. Partial failure is expected; the batch never aborts.
type BatchTranscription struct {
	Transcripts map[string]string `json:"transcripts"`
	Errors      []string          `json:"errors"`
	Progress    int               `json:"progress"`
}

// BatchItem reports one completed item of a bulk run, observed after every
// call whether it produced a transcript or an error.
type BatchItem struct {
	Key        string
	CallID     string
	Transcript string
	ErrMessage string
	Progress   int
}
