// Package typesig models structural SQL type signatures.
//
// A TypeSignature is the string-serializable description of a (possibly
// parameterized, possibly nested) SQL type: a base name plus an ordered list
// of parameters. Parameters form a closed sum: a nested type, a named field
// type (for row types), an integer literal (for precision/length), or a
// symbolic variable that is resolved later by parameter binding.
//
// Two concrete syntaxes are accepted by Parse:
//
//	canonical  base(param,param,...)      e.g. map(varchar,bigint), decimal(10,2)
//	legacy row base<type,...>('n',...)    e.g. row<bigint,varchar>('a','b')
//
// The canonical form round-trips through String. The legacy row form is kept
// for backward compatibility with persisted metadata: row signatures always
// serialize back into the legacy shape even though both shapes parse.
package typesig
