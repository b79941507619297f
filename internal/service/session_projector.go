package service

import (
	"time"

	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

// ProjectSessionDate maps a session's (priorityNumber, sessionNumber) pair
// onto a concrete calendar date relative to the subject's academic start
// date. Priority numbers advance one week at a time; session numbers advance
// one day at a time within that week. Negative session numbers are
// pre-learning sessions and land before the chapter's nominal week, so
// session -1 falls one day before the week anchor.
func ProjectSessionDate(anchor *time.Time, priorityNumber, sessionNumber int) (time.Time, error) {
	if anchor == nil || anchor.IsZero() {
		return time.Time{}, appErrors.Clone(appErrors.ErrMissingAnchor, "")
	}
	if priorityNumber < 1 {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "priority number must be positive")
	}
	if sessionNumber == 0 {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "session number must be non-zero")
	}

	offset := (priorityNumber - 1) * 7
	if sessionNumber > 0 {
		offset += sessionNumber - 1
	} else {
		offset += sessionNumber
	}
	return anchor.AddDate(0, 0, offset), nil
}
