package crawl

// Status represents the lifecycle state of a crawl. These values must
// match the text values stored in the database (crawls.status).
//
// Transitions only move forward: pending -> crawling -> completed|failed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCrawling  Status = "crawling"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// CanTransition reports whether moving from one status to another is a
// legal forward transition.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusCrawling
	case StatusCrawling:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}

// Terminal reports whether a status is final.
func Terminal(s Status) bool {
	return s == StatusCompleted || s == StatusFailed
}
