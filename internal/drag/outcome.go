package drag

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/timeline"
)

var (
	// ErrInvertedRange is returned when a proposed start falls after its end.
	ErrInvertedRange = errors.New("start date is after end date")
	// ErrOutOfRange is returned when a proposed date leaves the editable window.
	ErrOutOfRange = errors.New("date outside the editable window")
	// ErrUnchanged is returned when a gesture lands on the dates it started from.
	ErrUnchanged = errors.New("dates unchanged")
)

// OutcomeKind says what a finished gesture resolved to.
type OutcomeKind int

const (
	OutcomeClick OutcomeKind = iota
	OutcomeDiscard
	OutcomeCommit
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDiscard:
		return "discard"
	case OutcomeCommit:
		return "commit"
	default:
		return "click"
	}
}

// Outcome is the result of Session.End.
type Outcome struct {
	Kind      OutcomeKind
	FeatureID string
	Change    DateChange
	// Reason is set for discarded gestures.
	Reason error
}

// ValidateRange accepts start <= end with both dates inside the domain
// widened by slackDays on each side.
func ValidateRange(d timeline.Domain, start, end time.Time, slackDays int) error {
	if start.After(end) {
		return fmt.Errorf("%w: %s > %s", ErrInvertedRange, domain.FormatDate(start), domain.FormatDate(end))
	}
	lo := domain.AddDays(d.Start, -slackDays)
	hi := domain.AddDays(d.End, slackDays)
	for _, t := range []time.Time{start, end} {
		if t.Before(lo) || t.After(hi) {
			return fmt.Errorf("%w: %s not in [%s, %s]", ErrOutOfRange,
				domain.FormatDate(t), domain.FormatDate(lo), domain.FormatDate(hi))
		}
	}
	return nil
}
