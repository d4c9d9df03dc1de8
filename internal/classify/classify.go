// Package classify decides what work, if any, a probed video needs to
// satisfy the conversion policy. Classification is a pure function of the
// probe result and the policy; it performs no I/O.
package classify

import (
	"strings"

	"mediafixer/internal/config"
	"mediafixer/internal/media"
	"mediafixer/internal/queue"
)

// Kind is the coarse classification outcome.
type Kind int

const (
	// Invalid marks files whose probe lacked a container or video track.
	Invalid Kind = iota
	// Skip marks files already satisfying the policy on every dimension.
	Skip
	// NeedsWork marks files failing at least one policy dimension.
	NeedsWork
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Skip:
		return "skip"
	case NeedsWork:
		return "needs-work"
	}
	return "unknown"
}

// Result pairs the outcome kind with the individual transformation flags.
// Flags are only meaningful when Kind is NeedsWork.
type Result struct {
	Kind     Kind
	Remux    bool
	Reencode bool
	Resize   bool
}

// WorkItem builds the pending-queue item for a NeedsWork result.
func (r Result) WorkItem(path string) queue.WorkItem {
	return queue.WorkItem{
		Path:     path,
		Remux:    r.Remux,
		Reencode: r.Reencode,
		Resize:   r.Resize,
	}
}

// Classify compares a probe result against the policy. Each of the three
// dimensions is decided independently: container mismatch needs a remux,
// codec mismatch needs a re-encode, and a height strictly greater than the
// policy maximum needs a resize. Exactly-equal height does not trigger one.
func Classify(probe media.Result, policy config.Policy) Result {
	video, hasVideo := probe.VideoStream()
	if !probe.HasContainer() || !hasVideo {
		return Result{Kind: Invalid}
	}

	result := Result{
		Remux:    !strings.EqualFold(probe.Container(), media.CanonicalContainer(policy.Container)),
		Reencode: !strings.EqualFold(probe.VideoCodec(), media.CanonicalCodec(policy.VideoCodec)),
		Resize:   video.Height > policy.MaxHeight,
	}
	if result.Remux || result.Reencode || result.Resize {
		result.Kind = NeedsWork
	} else {
		result.Kind = Skip
	}
	return result
}
