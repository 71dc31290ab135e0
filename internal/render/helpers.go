package render

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/erptab/erptab/internal/model1"
)

// Truncate shortens s to max runes, ending with an ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	rr := []rune(s)
	if max == 1 {
		return string(rr[:1])
	}
	return string(rr[:max-1]) + "…"
}

// Thousands groups the integer part of a number with commas.
func Thousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if len(whole) <= 3 {
		return sign + s
	}

	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}

	return sign + b.String()
}

// AsInt renders integers with digit grouping.
func AsInt(v any) string {
	switch t := v.(type) {
	case nil:
		return NAValue
	case int64:
		return Thousands(strconv.FormatInt(t, 10))
	case int:
		return Thousands(strconv.Itoa(t))
	default:
		return model1.FormatValue(v)
	}
}

// AsAmount renders floats with two decimals and digit grouping.
func AsAmount(v any) string {
	f, ok := v.(float64)
	if !ok {
		return AsInt(v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NAValue
	}
	return Thousands(strconv.FormatFloat(f, 'f', 2, 64))
}

// DecorateHeader installs display decorators for numeric columns that
// carry none.
func DecorateHeader(h model1.Header) model1.Header {
	out := h.Clone()
	for i := range out {
		if out[i].Decorator != nil {
			continue
		}
		switch out[i].Kind {
		case model1.KindInt:
			out[i].Decorator = AsInt
		case model1.KindFloat:
			out[i].Decorator = AsAmount
		}
	}
	return out
}
