// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model1

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fvbommel/sortorder"
)

// Less returns true if v1 sorts before v2. Ties break on row identity so
// the order stays stable across fetches.
func Less(kind Kind, id1, id2 string, v1, v2 any) bool {
	c := Compare(kind, v1, v2)
	if c == 0 {
		return sortorder.NaturalLess(id1, id2)
	}
	return c < 0
}

// Compare orders two cell values of the given kind. Nil sorts first.
func Compare(kind Kind, v1, v2 any) int {
	switch {
	case v1 == nil && v2 == nil:
		return 0
	case v1 == nil:
		return -1
	case v2 == nil:
		return 1
	}

	switch kind {
	case KindInt, KindFloat:
		f1, ok1 := toFloat(v1)
		f2, ok2 := toFloat(v2)
		if ok1 && ok2 {
			switch {
			case f1 < f2:
				return -1
			case f1 > f2:
				return 1
			default:
				return 0
			}
		}
	case KindBool:
		b1, b2 := toBool(v1), toBool(v2)
		switch {
		case b1 == b2:
			return 0
		case !b1:
			return -1
		default:
			return 1
		}
	}

	s1, s2 := FormatValue(v1), FormatValue(v2)
	switch {
	case s1 == s2:
		return 0
	case sortorder.NaturalLess(s1, s2):
		return -1
	default:
		return 1
	}
}

// FormatValue renders a raw cell value.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return NAValue
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		if t {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// ParseValue converts user input into a value of the given kind. An empty
// string yields nil.
func ParseValue(kind Kind, s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	switch kind {
	case KindInt:
		n, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", s)
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", s)
		}
		return f, nil
	case KindBool:
		switch strings.ToLower(s) {
		case "1", "t", "true", "y", "yes", "on":
			return true, nil
		case "0", "f", "false", "n", "no", "off":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean %q", s)
	default:
		return s, nil
	}
}

// Contains reports whether the rendered value contains the lowercase needle.
func Contains(v any, needle string) bool {
	if v == nil {
		return false
	}
	return strings.Contains(strings.ToLower(FormatValue(v)), needle)
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(t, ",", ""), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(string(t), 64)
		return f, err == nil
	}
	return 0, false
}

func toBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int64:
		return t != 0
	case int:
		return t != 0
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	}
	return false
}
