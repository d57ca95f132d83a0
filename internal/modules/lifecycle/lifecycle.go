// Package lifecycle holds the pure status rules for editais. Status is
// recomputed from the stored dates, never driven by an explicit transition
// table. Persistence is the caller's job.
package lifecycle

import (
	"time"

	"github.com/agrohub-unirv/edital-hub/internal/modules/model"
)

// DefaultWarningWindow is how close an end date has to be for the
// "deadline imminent" flag.
const DefaultWarningWindow = 7 * 24 * time.Hour

// OnSave applies the inline rule that runs on every save: an open edital
// whose start date is still in the future becomes scheduled. Closing is
// deliberately left to the batch pass so a freshly edited record is never
// flipped to closed on its own save.
func OnSave(status model.Status, start *time.Time, now time.Time) model.Status {
	if status == model.StatusOpen && start != nil && startsAfterToday(*start, now) {
		return model.StatusScheduled
	}
	return status
}

// Reconcile applies the daily batch rules and returns the resulting status.
// Running it twice with the same inputs yields the same output, so the
// batch pass is idempotent.
func Reconcile(status model.Status, start, end *time.Time, now time.Time) model.Status {
	// Close editais whose end date has passed (today counts as passed).
	if status == model.StatusOpen && end != nil && !endAfterToday(*end, now) {
		status = model.StatusClosed
	}

	// A future start date means scheduled, whatever the current state,
	// except drafts, which are never resurrected by the batch.
	if status != model.StatusDraft && start != nil && startsAfterToday(*start, now) {
		status = model.StatusScheduled
	}

	// Promote scheduled editais whose window has arrived. Absent bounds are
	// treated permissively.
	if status == model.StatusScheduled && withinWindow(start, end, now) {
		status = model.StatusOpen
	}

	return status
}

// DeadlineImminent reports whether end falls inside the warning window
// relative to now. It is a presentation flag only and never mutates status.
func DeadlineImminent(end *time.Time, now time.Time, window time.Duration) bool {
	if end == nil {
		return false
	}
	if window <= 0 {
		window = DefaultWarningWindow
	}
	today := truncateDay(now)
	endDay := truncateDay(*end)
	if endDay.Before(today) {
		return false
	}
	return !endDay.After(today.Add(window))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startsAfterToday(start, now time.Time) bool {
	return truncateDay(start).After(truncateDay(now))
}

func endAfterToday(end, now time.Time) bool {
	return truncateDay(end).After(truncateDay(now))
}

func withinWindow(start, end *time.Time, now time.Time) bool {
	today := truncateDay(now)
	if start != nil && truncateDay(*start).After(today) {
		return false
	}
	// The end bound mirrors the closing rule: an end date of today or
	// earlier counts as expired, so promoting would flip to closed on the
	// very next run.
	if end != nil && !truncateDay(*end).After(today) {
		return false
	}
	return true
}
