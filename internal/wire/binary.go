package wire

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/stratumdb/stratum/internal/predicate"
)

// MarshalBinary encodes a tuple domain as msgpack for the planner-to-worker
// wire. The binary form is not canonical; fingerprint with the JSON form.
func MarshalBinary(td predicate.TupleDomain) ([]byte, error) {
	dto, err := toDTO(td)
	if err != nil {
		return nil, err
	}
	data, err := msgpack.Marshal(dto)
	if err != nil {
		return nil, fmt.Errorf("binary marshal: %w", err)
	}
	return data, nil
}

// UnmarshalBinary decodes the msgpack form.
func UnmarshalBinary(data []byte) (predicate.TupleDomain, error) {
	var dto tupleDomainDTO
	if err := msgpack.Unmarshal(data, &dto); err != nil {
		return predicate.TupleDomain{}, fmt.Errorf("binary decode: %w", err)
	}
	return fromDTO(dto)
}
