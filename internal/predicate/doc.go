// Package predicate implements the per-column constraint algebra used for
// pushdown: markers, ranges, value sets, domains and tuple domains.
//
// The shapes form a small lattice with well-defined closure operations.
// Every operation returns a value in canonical form: range sets are sorted,
// merged and collapse to ALL/NONE when universal/empty; discrete sets are
// deduplicated. Complement is an involution and Intersect/Union satisfy
// De Morgan's laws through Complement.
//
// All values are immutable after construction and safe to share across
// goroutines. Operations combining values of different SQL types report an
// internal error: callers are expected to keep domains type-homogeneous.
package predicate
