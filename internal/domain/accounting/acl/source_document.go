package acl

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Field lookup errors
var (
	ErrFieldNotFound   = shared.NewDomainError("FIELD_NOT_FOUND", "Source document has no such field")
	ErrFieldNotNumeric = shared.NewDomainError("FIELD_NOT_NUMERIC", "Source document field is not a numeric value")
)

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_.]+)\}`)

// SourceDocument is the accounting context's view of an external document
// (invoice, goods receipt, stock adjustment): a flat string-key map with
// typed accessors. Lookups are total - an unknown key is an explicit
// ErrFieldNotFound, never a silently propagated zero value.
type SourceDocument map[string]any

// Amount reads a numeric field by key
func (d SourceDocument) Amount(key string) (decimal.Decimal, error) {
	value, ok := d[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrFieldNotFound, key)
	}

	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q=%q", ErrFieldNotNumeric, key, v)
		}
		return parsed, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q is %T", ErrFieldNotNumeric, key, value)
	}
}

// String reads a field by key and renders it as a string
func (d SourceDocument) String(key string) (string, error) {
	value, ok := d[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrFieldNotFound, key)
	}
	return renderValue(value), nil
}

// Has returns true if the document carries the given field
func (d SourceDocument) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// ExpandTemplate substitutes {field} placeholders in the template with the
// corresponding document fields. An unknown placeholder fails with
// ErrFieldNotFound so a typo in a rule's description template surfaces
// instead of producing an empty description.
func (d SourceDocument) ExpandTemplate(template string) (string, error) {
	var missing string
	expanded := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := d[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return match
		}
		return renderValue(value)
	})
	if missing != "" {
		return "", fmt.Errorf("%w: template placeholder %q", ErrFieldNotFound, missing)
	}
	return expanded, nil
}

func renderValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case decimal.Decimal:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
