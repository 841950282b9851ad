package cursorpagination

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ValueConverter turns a value read from a decoded cursor back into the value
// the query layer expects for a column.
type ValueConverter interface {
	Convert(value any) (any, error)
}

// ConverterFunc adapts a plain function to ValueConverter.
type ConverterFunc func(value any) (any, error)

func (f ConverterFunc) Convert(value any) (any, error) {
	return f(value)
}

// IntConverter converts to int64.
type IntConverter struct{}

func (IntConverter) Convert(value any) (any, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("integer value %d overflows int64", v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("value %v is not an integer", v)
		}
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return nil, fmt.Errorf("cannot convert %T to integer", value)
	}
}

// FloatConverter converts to float64.
type FloatConverter struct{}

func (FloatConverter) Convert(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return nil, fmt.Errorf("cannot convert %T to float", value)
	}
}

// StringConverter converts scalars to their string representation.
type StringConverter struct{}

func (StringConverter) Convert(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to string", value)
	}
}

// BoolConverter converts to bool.
type BoolConverter struct{}

func (BoolConverter) Convert(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	case int64:
		return v != 0, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to bool", value)
	}
}

// TimeConverter parses timestamps. An empty Layout means RFC 3339 with
// optional fractional seconds, which is what time.Time marshals to.
type TimeConverter struct {
	Layout string
}

func (c TimeConverter) Convert(value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		layout := c.Layout
		if layout == "" {
			layout = time.RFC3339Nano
		}
		return time.Parse(layout, v)
	case int64:
		return time.Unix(v, 0).UTC(), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to time", value)
	}
}

// UUIDConverter parses UUID strings.
type UUIDConverter struct{}

func (UUIDConverter) Convert(value any) (any, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		return uuid.Parse(v)
	default:
		return nil, fmt.Errorf("cannot convert %T to uuid", value)
	}
}

var (
	_ ValueConverter = ConverterFunc(nil)
	_ ValueConverter = IntConverter{}
	_ ValueConverter = FloatConverter{}
	_ ValueConverter = StringConverter{}
	_ ValueConverter = BoolConverter{}
	_ ValueConverter = TimeConverter{}
	_ ValueConverter = UUIDConverter{}
)
