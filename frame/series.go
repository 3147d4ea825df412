package frame

import (
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
)

// Series は1列分の値と行ラベル
type Series struct {
	s     series.Series
	index []string
}

func newSeries(s series.Series, index []string) *Series {
	if index == nil {
		index = defaultIndex(s.Len())
	}
	return &Series{s: s, index: index}
}

// NewSeries wraps a gota series with the given labels (nil for 0..n-1).
func NewSeries(s series.Series, index []string) (*Series, error) {
	if s.Err != nil {
		return nil, errors.Wrap(s.Err, "frame: new series")
	}
	if index != nil && len(index) != s.Len() {
		return nil, errors.NewDimensionError("frame.NewSeries", s.Len(), len(index), 0)
	}
	return newSeries(s, append([]string(nil), index...)), nil
}

// Name returns the series name.
func (s *Series) Name() string { return s.s.Name }

// Len returns the number of values.
func (s *Series) Len() int { return s.s.Len() }

// Dtype returns the gota type name ("string", "int", "float", "bool").
func (s *Series) Dtype() string { return string(s.s.Type()) }

// Index returns the labels.
func (s *Series) Index() []string { return append([]string(nil), s.index...) }

// Records returns the values formatted as strings.
func (s *Series) Records() []string { return s.s.Records() }

// Float returns the values as float64; non-numeric values become NaN.
// Converting a non-numeric series emits a DataConversionWarning.
func (s *Series) Float() []float64 {
	if !numeric(s.s.Type()) {
		errors.Warn(errors.NewDataConversionWarning(s.Dtype(), "float", "column "+strconv.Quote(s.Name())+" is not numeric"))
	}
	return s.s.Float()
}

// Elem returns the value at position i.
func (s *Series) Elem(i int) (series.Element, error) {
	p, err := normalize("Series.Elem", i, s.Len(), 0)
	if err != nil {
		return nil, err
	}
	return s.s.Elem(p).Copy(), nil
}

// Get returns the value with the given label.
func (s *Series) Get(label interface{}) (series.Element, error) {
	l, err := labelOf("Series.Get", label)
	if err != nil {
		return nil, err
	}
	for i, x := range s.index {
		if x == l {
			return s.s.Elem(i).Copy(), nil
		}
	}
	return nil, errors.NewKeyError("Series.Get", l)
}

func (s *Series) subset(positions []int) *Series {
	index := make([]string, len(positions))
	for i, p := range positions {
		index[i] = s.index[p]
	}
	return &Series{s: subsetSeries(s.s, positions), index: index}
}

// Head returns the first n values.
func (s *Series) Head(n int) *Series {
	return s.subset(seq(0, min(max(n, 0), s.Len())))
}

// Tail returns the last n values.
func (s *Series) Tail(n int) *Series {
	return s.subset(seq(s.Len()-min(max(n, 0), s.Len()), s.Len()))
}

// Mean returns the mean of the non-missing numeric values.
func (s *Series) Mean() (float64, error) {
	if !numeric(s.s.Type()) {
		return 0, errors.NewTypeError("Series.Mean", "numeric series", s.Dtype())
	}
	return nanMean(s.s.Float()), nil
}

func numeric(t series.Type) bool {
	return t == series.Int || t == series.Float
}

// nanMean は NaN を除いた平均。値が無い場合は NaN
func nanMean(values []float64) float64 {
	kept := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return math.NaN()
	}
	return stat.Mean(kept, nil)
}

// NUnique returns the number of distinct non-missing values.
func (s *Series) NUnique() int {
	seen := make(map[string]bool)
	for i := 0; i < s.Len(); i++ {
		e := s.s.Elem(i)
		if e.IsNA() {
			continue
		}
		seen[e.String()] = true
	}
	return len(seen)
}

// ValueCounts は値ごとの出現回数を降順で返す。同数の場合は初出順
func (s *Series) ValueCounts() *Series {
	counts := make(map[string]int)
	var order []string
	for i := 0; i < s.Len(); i++ {
		e := s.s.Elem(i)
		if e.IsNA() {
			continue
		}
		k := e.String()
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	values := make([]int, len(order))
	for i, k := range order {
		values[i] = counts[k]
	}
	out := series.Ints(values)
	out.Name = "count"
	return &Series{s: out, index: order}
}

// IndexFloats parses the labels as numbers, e.g. the years of a grouped mean.
func (s *Series) IndexFloats() ([]float64, error) {
	out := make([]float64, len(s.index))
	for i, l := range s.index {
		v, err := strconv.ParseFloat(l, 64)
		if err != nil {
			return nil, errors.NewTypeError("Series.IndexFloats", "numeric labels", l)
		}
		out[i] = v
	}
	return out, nil
}

// Series returns a copy of the underlying gota series.
func (s *Series) Series() series.Series {
	return s.s.Copy()
}
