// Package translator converts between scalar predicates and tuple domains.
//
// FromPredicate decomposes a boolean expression into the strongest tuple
// domain implied by it plus a remaining expression that must still be
// evaluated per row. The guarantee is containment, not equivalence: every
// row satisfying the original predicate satisfies the extracted domain AND
// the remaining expression, and conjoining the two never admits extra rows.
//
// ToPredicate renders a tuple domain back into an expression. Round-tripping
// a predicate through FromPredicate and ToPredicate yields an equivalent
// (not necessarily identical) predicate.
package translator
