// Package queue persists batch progress as a set of durable, line-oriented
// queue files owned by a single run. Each queue is append-only until popped;
// the in_progress queue bridges the window between claiming an item and
// recording its outcome so an interrupted run can be reconciled on restart.
package queue
