package request

import (
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// DateLayout is the calendar-date wire format requests carry.
const DateLayout = "2006-01-02"

type Comment struct {
	ID        int64     `json:"id"`
	AuthorID  string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Request is one day-off request. Date stays a plain YYYY-MM-DD string on
// the wire; AccountID, Date, UsePTO and RequestedAt are immutable after
// creation. ProcessedAt/ProcessedBy are overwritten on every transition.
type Request struct {
	ID          int64      `json:"id"`
	AccountID   string     `json:"accountId"`
	Date        string     `json:"date"`
	UsePTO      bool       `json:"usePTO"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requestedAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
	ProcessedBy string     `json:"processedBy,omitempty"`
	Comments    []Comment  `json:"comments"`
}

// Year reports the calendar year the requested date falls in; zero when
// the stored date is malformed.
func (r Request) Year() int {
	t, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return 0
	}
	return t.Year()
}

// Ledger is the ordered collection of all requests, persisted as one blob.
type Ledger []Request
