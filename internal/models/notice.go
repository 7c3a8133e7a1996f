package models

// Notice tags.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeInfo    = "info"
	NoticeWarning = "warning"
)

// Notice is a tagged user-facing message attached to a mutation response.
// The list is built per request and discarded with the response; nothing is
// stored across requests.
type Notice struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

// Notices collects per-request notices for the response payload.
type Notices []Notice

// Success appends a success notice and returns the updated list.
func (n Notices) Success(text string) Notices {
	return append(n, Notice{Tag: NoticeSuccess, Text: text})
}

// Info appends an info notice and returns the updated list.
func (n Notices) Info(text string) Notices {
	return append(n, Notice{Tag: NoticeInfo, Text: text})
}

// Warning appends a warning notice and returns the updated list.
func (n Notices) Warning(text string) Notices {
	return append(n, Notice{Tag: NoticeWarning, Text: text})
}
