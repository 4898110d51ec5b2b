package orderview

import "strings"

// Status is the normalized order status enum.
type Status string

const (
	StatusNew        Status = "new"
	StatusProcessing Status = "processing"
	StatusPaid       Status = "paid"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus maps a raw server status onto the enum. The legacy
// "returned" status maps to "cancelled"; unknown values pass through
// lowercased so new server statuses still render.
func ParseStatus(raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "returned":
		return StatusCancelled
	case "":
		return StatusNew
	default:
		return Status(s)
	}
}

// progressFlow is the canonical order progress sequence.
var progressFlow = []Status{StatusNew, StatusProcessing, StatusShipped, StatusDelivered}

// Flow returns the progress sequence to display for the current status.
// A cancelled order truncates the flow: only "new" and "cancelled" appear.
func Flow(current Status) []Status {
	if current == StatusCancelled {
		return []Status{StatusNew, StatusCancelled}
	}
	out := make([]Status, len(progressFlow))
	copy(out, progressFlow)
	return out
}

// flowIndex positions a status within its flow. Statuses outside the
// flow ("paid", unknown values) share the processing slot so the
// timeline stays sensible.
func flowIndex(current Status, flow []Status) int {
	for i, s := range flow {
		if s == current {
			return i
		}
	}
	return 1
}

// Step is one rendered entry of the status timeline.
type Step struct {
	Status    Status `json:"status"`
	Completed bool   `json:"completed"`
	Active    bool   `json:"active"`
}

// Timeline renders the progress flow for the current status. A step is
// completed when its index is at or before the current status's index and
// active when equal.
func Timeline(current Status) []Step {
	flow := Flow(current)
	idx := flowIndex(current, flow)
	steps := make([]Step, len(flow))
	for i, s := range flow {
		steps[i] = Step{
			Status:    s,
			Completed: i <= idx,
			Active:    i == idx,
		}
	}
	return steps
}
