package request

type SubmitRequest struct {
	Date   string `json:"date" binding:"required"`
	UsePTO bool   `json:"use_pto"`
}

// AddCommentRequest carries no binding tag on Text: blank comments must
// reach the engine so the caller sees the engine's own error kind.
type AddCommentRequest struct {
	Text string `json:"text"`
}

// ListFilter narrows GetAll; zero values mean no filtering.
type ListFilter struct {
	AccountID string
	Status    string
	Date      string
	Year      int
}

type CommentResponse struct {
	ID        int64  `json:"id"`
	AuthorID  string `json:"author_id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

type RequestResponse struct {
	ID          int64             `json:"id"`
	AccountID   string            `json:"account_id"`
	Date        string            `json:"date"`
	UsePTO      bool              `json:"use_pto"`
	Status      string            `json:"status"`
	RequestedAt string            `json:"requested_at"`
	ProcessedAt *string           `json:"processed_at,omitempty"`
	ProcessedBy string            `json:"processed_by,omitempty"`
	Comments    []CommentResponse `json:"comments"`
}

type UsageResponse struct {
	AccountID string `json:"account_id"`
	Year      int    `json:"year"`
	UsedDays  int    `json:"used_days"`
	Allowance int    `json:"allowance"`
}
