package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/DukeRupert/kyrisk/internal/domain"
)

// MaxBodyBytes caps every request body (1 MiB).
const MaxBodyBytes = 1 << 20

// decodeJSON reads one JSON object from the request body into dst.
// Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return domain.TooLarge(op, fmt.Sprintf("request body exceeds %d bytes", MaxBodyBytes))
		}
		return &domain.Error{Code: domain.EINVALID, Op: op, Message: "request body could not be read", Err: err}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return domain.Invalid(op, "request body is empty")
	}

	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return domain.NewValidationError(op, typeErr.Field, fmt.Sprintf("expected %s", typeErr.Type))
		}
		return &domain.Error{Code: domain.EINVALID, Op: op, Message: "request body is not valid JSON", Err: err}
	}
	return nil
}

// =============================================================================
// Lenient Numbers
// =============================================================================

// Number is an optional real number. It accepts a JSON number, a numeric
// string, or null. Anything else, including non-finite values, decodes as
// absent rather than failing the request.
type Number struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	if v, ok := parseLenient(b); ok {
		*n = Number{Value: v, Valid: true}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns the value as a pointer, nil when absent.
func (n Number) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// Count is an optional integer with the same leniency as Number.
// Fractions are truncated toward zero; values outside the int32 range
// decode as absent.
type Count struct {
	Value int
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(b []byte) error {
	*c = Count{}
	v, ok := parseLenient(b)
	if !ok || v < math.MinInt32 || v > math.MaxInt32 {
		return nil
	}
	*c = Count{Value: int(math.Trunc(v)), Valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(c.Value)), nil
}

// Ptr returns the value as a pointer, nil when absent.
func (c Count) Ptr() *int {
	if !c.Valid {
		return nil
	}
	v := c.Value
	return &v
}

// parseLenient reads a JSON number or numeric string.
func parseLenient(b []byte) (float64, bool) {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return 0, false
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal([]byte(s), &str); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(str)
	} else if s[0] != '-' && (s[0] < '0' || s[0] > '9') {
		// Objects, arrays and booleans
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
