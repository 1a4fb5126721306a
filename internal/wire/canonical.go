package wire

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/stratumdb/stratum/internal/predicate"
)

// FingerprintDomain separates tuple-domain fingerprints from any other
// sha256 use. The version suffix allows migrating the canonical form.
const FingerprintDomain = "stratum/tupledomain/v1"

// MarshalCanonical produces the canonical JSON form of a tuple domain: one
// byte sequence per logical domain, independent of construction order.
// Columns sort by name, value sets are in their canonical internal order,
// strings are NFC normalized and HTML characters are not escaped.
func MarshalCanonical(td predicate.TupleDomain) ([]byte, error) {
	dto, err := toDTO(td)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(dto); err != nil {
		return nil, fmt.Errorf("canonical marshal: %w", err)
	}
	out := buf.Bytes()
	// json.Encoder appends a newline.
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return out, nil
}

// UnmarshalJSON decodes the canonical JSON form.
func UnmarshalJSON(data []byte) (predicate.TupleDomain, error) {
	var dto tupleDomainDTO
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dto); err != nil {
		return predicate.TupleDomain{}, fmt.Errorf("decode tuple domain: %w", err)
	}
	return fromDTO(dto)
}

// Fingerprint is the content address of a tuple domain:
// sha256(domain || 0x00 || canonical JSON), hex encoded. Equal domains get
// equal fingerprints regardless of how they were built.
func Fingerprint(td predicate.TupleDomain) (string, error) {
	canonical, err := MarshalCanonical(td)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(FingerprintDomain))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
