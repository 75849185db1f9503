package pipeline

import "time"

// Report summarises one Run. Counts do not depend on completion order.
type Report struct {
	Records  int // results delivered by workers
	Failed   int // results with Err != nil
	Mappings int // mappings across successful results
	Workers  int
	Retired  int // workers taken out of the pool after a panic
	Elapsed  time.Duration
}

func (r *Report) add(res ResultItem) {
	r.Records++
	if res.Err != nil {
		r.Failed++
		return
	}
	r.Mappings += len(res.Mappings)
}
