package frame

import (
	"strconv"
	"strings"

	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
)

// Slice は start:stop:step 形式の範囲。nil は省略を表す
type Slice struct {
	Start, Stop, Step *int
}

// Span is a shorthand for Slice{&start, &stop, nil}.
func Span(start, stop int) Slice {
	return Slice{Start: &start, Stop: &stop}
}

// ParseSlice parses "start:stop:step" with any part omitted, e.g. ":3",
// "0:6:2", "::2" or "::".
func ParseSlice(s string) (Slice, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Slice{}, errors.NewValueError("frame.ParseSlice", "expected start:stop[:step], got "+strconv.Quote(s))
	}
	var out Slice
	targets := []**int{&out.Start, &out.Stop, &out.Step}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return Slice{}, errors.NewValueError("frame.ParseSlice", "invalid slice bound "+strconv.Quote(p))
		}
		*targets[i] = &v
	}
	return out, nil
}

// Indices は長さ n の軸に対する位置の列を返す（範囲外は切り詰める）
func (s Slice) Indices(n int) ([]int, error) {
	step := 1
	if s.Step != nil {
		step = *s.Step
	}
	if step == 0 {
		return nil, errors.NewValueError("Slice.Indices", "slice step cannot be zero")
	}

	lower, upper := 0, n
	if step < 0 {
		lower, upper = -1, n-1
	}
	clamp := func(v *int, def int) int {
		if v == nil {
			return def
		}
		x := *v
		if x < 0 {
			x += n
			if x < lower {
				x = lower
			}
		} else if x > upper {
			x = upper
		}
		return x
	}

	var start, stop int
	if step > 0 {
		start, stop = clamp(s.Start, lower), clamp(s.Stop, upper)
	} else {
		start, stop = clamp(s.Start, upper), clamp(s.Stop, lower)
	}

	var out []int
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		out = append(out, i)
	}
	return out, nil
}

func (s Slice) String() string {
	part := func(v *int) string {
		if v == nil {
			return ""
		}
		return strconv.Itoa(*v)
	}
	out := part(s.Start) + ":" + part(s.Stop)
	if s.Step != nil {
		out += ":" + part(s.Step)
	}
	return out
}

// SliceColumns selects columns with slice semantics (df.iloc[:, a:b:c]).
func (f *Frame) SliceColumns(s Slice) (*Frame, error) {
	idx, err := s.Indices(f.df.Ncol())
	if err != nil {
		return nil, err
	}
	return f.ILocColumns(idx...)
}

// SliceRows selects rows with slice semantics (df.iloc[a:b:c]).
func (f *Frame) SliceRows(s Slice) (*Frame, error) {
	idx, err := s.Indices(f.Len())
	if err != nil {
		return nil, err
	}
	return f.rows(idx), nil
}
