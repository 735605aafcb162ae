package utils

import (
	"fmt"
	"time"
)

func ToString(x interface{}) string {
	switch t := x.(type) {
	case nil:
		return ""

	case string:
		return t

	case *string:
		if t == nil {
			return ""
		}
		return *t

	case []byte:
		return string(t)

	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(time.RFC3339Nano)

	case error:
		return t.Error()

	case fmt.Stringer:
		return t.String()

	default:
		return fmt.Sprintf("%v", x)
	}
}

func StringPtr(in string) *string {
	return &in
}
