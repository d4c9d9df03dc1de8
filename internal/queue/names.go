package queue

// Name identifies one of the fixed queues backing a run.
type Name string

const (
	// Pending holds work items waiting to be processed.
	Pending Name = "pending"
	// InProgress holds the item currently being transformed. It has at most
	// one entry during normal operation; more only inside crash windows.
	InProgress Name = "in_progress"
	// Completed holds items whose transformation succeeded.
	Completed Name = "completed"
	// Failed holds items that could not be probed or transformed.
	Failed Name = "failed"
	// Skipped holds files that already satisfy the conversion policy.
	Skipped Name = "skipped"
	// Leftover holds orphaned working artifacts found during a scan.
	Leftover Name = "leftover"
)

// Names lists every queue a store owns, in display order.
var Names = []Name{Pending, InProgress, Completed, Failed, Skipped, Leftover}

func (n Name) valid() bool {
	switch n {
	case Pending, InProgress, Completed, Failed, Skipped, Leftover:
		return true
	}
	return false
}
