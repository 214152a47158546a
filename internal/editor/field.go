package editor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field identifies one editable field of the draft.
type Field int

const (
	FieldCategory Field = iota
	FieldName
	FieldCalories
)

// Fields lists the editable fields in form order.
var Fields = []Field{FieldCategory, FieldName, FieldCalories}

func (f Field) String() string {
	switch f {
	case FieldCategory:
		return "category"
	case FieldName:
		return "name"
	case FieldCalories:
		return "calories"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// ParseField maps a field key to a Field.
func ParseField(key string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "category":
		return FieldCategory, nil
	case "name":
		return FieldName, nil
	case "calories":
		return FieldCalories, nil
	default:
		return 0, fmt.Errorf("unknown field %q", key)
	}
}

// coerceNumber turns raw input into an int. Text that is not a number, or
// a number outside the int32 range, coerces to 0; decimals truncate toward
// zero.
func coerceNumber(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}
