package frame

import (
	"fmt"

	"github.com/go-gota/gota/series"

	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
)

// Predicate selects rows of a Frame.
type Predicate interface {
	mask(f *Frame) ([]bool, error)
}

type compare struct {
	column     string
	comparator series.Comparator
	values     []interface{}
}

// Eq matches rows whose column equals value.
func Eq(column string, value interface{}) Predicate {
	return compare{column: column, comparator: series.Eq, values: []interface{}{value}}
}

// In matches rows whose column equals any of values.
func In(column string, values ...interface{}) Predicate {
	return compare{column: column, comparator: series.In, values: values}
}

func (c compare) mask(f *Frame) ([]bool, error) {
	if !f.hasColumn(c.column) {
		return nil, errors.NewColumnNotFoundError("Frame.Filter", c.column, f.df.Names())
	}
	if len(c.values) == 0 {
		return make([]bool, f.Len()), nil
	}
	// gota は比較対象を列の型で解釈するため文字列で渡す
	comparando := make([]string, len(c.values))
	for i, v := range c.values {
		comparando[i] = fmt.Sprint(v)
	}
	res := f.df.Col(c.column).Compare(c.comparator, comparando)
	if res.Err != nil {
		return nil, errors.Wrapf(res.Err, "frame: compare column %q", c.column)
	}
	return res.Bool()
}

type logical struct {
	and   bool
	preds []Predicate
}

// And matches rows satisfying every predicate.
func And(preds ...Predicate) Predicate {
	return logical{and: true, preds: preds}
}

// Or matches rows satisfying at least one predicate.
func Or(preds ...Predicate) Predicate {
	return logical{preds: preds}
}

func (l logical) mask(f *Frame) ([]bool, error) {
	out := make([]bool, f.Len())
	for i := range out {
		out[i] = l.and
	}
	for _, p := range l.preds {
		m, err := p.mask(f)
		if err != nil {
			return nil, err
		}
		for i := range out {
			if l.and {
				out[i] = out[i] && m[i]
			} else {
				out[i] = out[i] || m[i]
			}
		}
	}
	return out, nil
}

// Filter returns the rows matching p, keeping their labels.
func (f *Frame) Filter(p Predicate) (out *Frame, err error) {
	defer errors.Recover(&err, "Frame.Filter")

	m, err := p.mask(f)
	if err != nil {
		return nil, err
	}
	var positions []int
	for i, keep := range m {
		if keep {
			positions = append(positions, i)
		}
	}
	return f.rows(positions), nil
}
