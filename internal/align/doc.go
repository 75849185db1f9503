// Package align maps query sequences against an index.Index: minimizer
// seeding, colinear chaining of anchors per target and strand, and PAF-style
// Mapping records.
//
// Chains are scored from anchor spacing alone; no base-level alignment is
// performed.
package align
