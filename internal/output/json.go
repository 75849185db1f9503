package output

import (
	"readmap/internal/align"
	"readmap/internal/pipeline"
	"readmap/pkg/api"
)

// ToAPIMapping converts a Mapping to the stable wire schema (v1).
func ToAPIMapping(m align.Mapping) api.MappingV1 {
	return api.MappingV1{
		QueryName:   m.QueryName,
		QueryLen:    m.QueryLen,
		QueryStart:  m.QueryStart,
		QueryEnd:    m.QueryEnd,
		Strand:      string(m.Strand),
		TargetName:  m.TargetName,
		TargetLen:   m.TargetLen,
		TargetStart: m.TargetStart,
		TargetEnd:   m.TargetEnd,
		Matches:     m.Matches,
		BlockLen:    m.BlockLen,
		MapQ:        int(m.MapQ),
		Primary:     m.Primary,
		Anchors:     m.Anchors,
		Score:       m.Score,
	}
}

// ToAPIResult converts one pipeline result, successful or not, to v1.
func ToAPIResult(r pipeline.ResultItem) api.ResultV1 {
	v := api.ResultV1{Query: string(r.ID), Mappings: make([]api.MappingV1, 0, len(r.Mappings))}
	if r.Err != nil {
		v.Error = r.Err.Error()
		return v
	}
	for _, m := range r.Mappings {
		v.Mappings = append(v.Mappings, ToAPIMapping(m))
	}
	return v
}
