package availability

import (
	"sort"
	"time"

	"rentable/internal/domain/shared/daterange"
)

// Boundary tags the timeline entries produced by a candidate booking.
type Boundary string

const (
	BoundaryNone  Boundary = ""
	BoundaryStart Boundary = "start"
	BoundaryEnd   Boundary = "end"
)

// Span is an occupancy interval with the quantity it consumes.
type Span struct {
	Range    daterange.Range
	Quantity int
}

// Period is one entry of the computed timeline: the running occupied
// quantity as of Date. Dates strictly increase across entries.
type Period struct {
	Date      time.Time
	Quantity  int
	NewPeriod Boundary
}

// Query bundles the inputs of one timeline computation. MaxQuantity is
// the occupancy ceiling; non-positive means unbounded. Candidate is the
// booking being evaluated, if any.
type Query struct {
	Bookings    []Span
	Records     []Record
	Candidate   *Span
	MaxQuantity int
}

type Result struct {
	IsAvailable bool
	Periods     []Period
}

type event struct {
	date     time.Time
	delta    int
	boundary Boundary
}

// Compute merges booking occupancy and manual availability records into a
// day-indexed quantity timeline and decides whether the candidate fits
// under the ceiling.
//
// Each booking contributes +quantity at its start and -quantity at its
// end. An "available" record adds capacity, so it lowers the occupied
// count over its interval; a blocked record raises it. Events are swept
// in date order with insertion order preserved on ties; entries sharing a
// date collapse into one, the last event written winning the boundary
// tag. The ceiling check only runs when a candidate is present and is
// sticky: once the running quantity overshoots, the verdict stays
// negative even if occupancy later drops.
//
// When there are no bookings and no records at all the computation short
// circuits to "available" with an empty timeline, candidate included.
func Compute(q Query) Result {
	if len(q.Bookings) == 0 && len(q.Records) == 0 {
		return Result{IsAvailable: true}
	}

	events := make([]event, 0, 2*(len(q.Bookings)+len(q.Records))+2)
	for _, b := range q.Bookings {
		events = append(events,
			event{date: b.Range.Start, delta: b.Quantity},
			event{date: b.Range.End, delta: -b.Quantity},
		)
	}
	for _, r := range q.Records {
		if r.Available {
			events = append(events,
				event{date: r.Range.Start, delta: -r.Quantity},
				event{date: r.Range.End, delta: r.Quantity},
			)
		} else {
			events = append(events,
				event{date: r.Range.Start, delta: r.Quantity},
				event{date: r.Range.End, delta: -r.Quantity},
			)
		}
	}
	hasCandidate := q.Candidate != nil
	if hasCandidate {
		events = append(events,
			event{date: q.Candidate.Range.Start, delta: q.Candidate.Quantity, boundary: BoundaryStart},
			event{date: q.Candidate.Range.End, delta: -q.Candidate.Quantity, boundary: BoundaryEnd},
		)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].date.Before(events[j].date)
	})

	isAvailable := true
	running := 0
	periods := make([]Period, 0, len(events)+1)
	for _, ev := range events {
		running += ev.delta
		if hasCandidate && q.MaxQuantity > 0 && running > q.MaxQuantity {
			isAvailable = false
		}
		entry := Period{Date: ev.date, Quantity: running, NewPeriod: ev.boundary}
		if n := len(periods); n > 0 && periods[n-1].Date.Equal(ev.date) {
			periods[n-1] = entry
		} else {
			periods = append(periods, entry)
		}
	}

	if len(periods) > 0 {
		baseline := Period{Date: periods[0].Date.AddDate(0, 0, -1)}
		periods = append([]Period{baseline}, periods...)
	}

	return Result{IsAvailable: isAvailable, Periods: periods}
}
