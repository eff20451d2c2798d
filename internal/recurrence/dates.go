package recurrence

import "time"

// Dates computes the sorted set of dates on which an occurrence of a
// definition should exist within [rangeStart, rangeEnd] (inclusive).
//
// due is the definition's due date and anchors the series: recurring
// rules never yield dates before it. recurrenceEnd (inclusive) caps the
// series when set; a recurrenceEnd earlier than due is treated as a
// misconfigured series and yields no dates. earlyStart applies to
// one-off chores only: when set and strictly before due, the single
// occurrence date moves to earlyStart.
//
// Callers are expected to filter inactive definitions before evaluating.
func Dates(r Rule, due time.Time, recurrenceEnd, earlyStart *time.Time, rangeStart, rangeEnd time.Time) []time.Time {
	due = startOfDay(due)
	rangeStart = startOfDay(rangeStart)
	rangeEnd = startOfDay(rangeEnd)
	if rangeEnd.Before(rangeStart) {
		return nil
	}

	if !r.IsRecurring() {
		d := due
		if earlyStart != nil {
			if es := startOfDay(*earlyStart); es.Before(due) {
				d = es
			}
		}
		if d.Before(rangeStart) || d.After(rangeEnd) {
			return nil
		}
		return []time.Time{d}
	}

	start := rangeStart
	if due.After(start) {
		start = due
	}
	end := rangeEnd
	if recurrenceEnd != nil {
		if re := startOfDay(*recurrenceEnd); re.Before(end) {
			end = re
		}
	}
	if end.Before(due) {
		// Series ends before it begins. Misconfigured, not an error.
		return nil
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if r.matches(d) {
			dates = append(dates, d)
		}
	}
	return dates
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
