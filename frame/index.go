package frame

import (
	"fmt"
	"strconv"

	"github.com/go-gota/gota/series"

	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
)

// Row は1行分の値（列名 → 値）
//
// Loc と ILoc が返す。Head(1) が返す1行の Frame とは区別される。
type Row struct {
	Label  string
	names  []string
	values []series.Element
}

// Columns returns the column names of the row.
func (r *Row) Columns() []string {
	return append([]string(nil), r.names...)
}

// Len returns the number of values.
func (r *Row) Len() int {
	return len(r.values)
}

// Get returns the value of the named column.
func (r *Row) Get(column string) (series.Element, error) {
	for i, n := range r.names {
		if n == column {
			return r.values[i], nil
		}
	}
	return nil, errors.NewColumnNotFoundError("Row.Get", column, r.names)
}

// At returns the value at column position j.
func (r *Row) At(j int) (series.Element, error) {
	p, err := normalize("Row.At", j, len(r.values), 1)
	if err != nil {
		return nil, err
	}
	return r.values[p], nil
}

// labelOf は Loc 系のキーを文字列ラベルに変換する
func labelOf(op string, label interface{}) (string, error) {
	switch v := label.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int32, int64, uint, uint32, uint64:
		return fmt.Sprint(v), nil
	default:
		return "", errors.NewTypeError(op, "int or string label", label)
	}
}

// normalize maps a possibly negative position into [0, n).
func normalize(op string, p, n, axis int) (int, error) {
	q := p
	if q < 0 {
		q += n
	}
	if q < 0 || q >= n {
		return 0, errors.NewIndexError(op, p, n, axis)
	}
	return q, nil
}

func (f *Frame) position(op string, label interface{}) (int, error) {
	l, err := labelOf(op, label)
	if err != nil {
		return 0, err
	}
	p, ok := f.pos[l]
	if !ok {
		return 0, errors.NewKeyError(op, l)
	}
	return p, nil
}

func (f *Frame) row(p int) *Row {
	names := f.df.Names()
	values := make([]series.Element, len(names))
	for j := range names {
		values[j] = f.df.Elem(p, j).Copy()
	}
	return &Row{Label: f.index[p], names: names, values: values}
}

// Loc は行ラベルで1行を取り出す
//
// ラベルは位置ではないため、既定インデックスでも Loc(-1) は KeyError になる。
func (f *Frame) Loc(label interface{}) (*Row, error) {
	p, err := f.position("Frame.Loc", label)
	if err != nil {
		return nil, err
	}
	return f.row(p), nil
}

// LocList returns the rows with the given labels, in order.
func (f *Frame) LocList(labels ...interface{}) (*Frame, error) {
	positions := make([]int, len(labels))
	for i, l := range labels {
		p, err := f.position("Frame.LocList", l)
		if err != nil {
			return nil, err
		}
		positions[i] = p
	}
	return f.rows(positions), nil
}

// LocRange returns the rows from label `from` to label `to`, both inclusive.
// If `to` precedes `from` the result is empty.
func (f *Frame) LocRange(from, to interface{}) (*Frame, error) {
	start, err := f.position("Frame.LocRange", from)
	if err != nil {
		return nil, err
	}
	end, err := f.position("Frame.LocRange", to)
	if err != nil {
		return nil, err
	}
	return f.rows(seq(start, end+1)), nil
}

// LocCell returns the value at (row label, column name).
func (f *Frame) LocCell(label interface{}, column string) (series.Element, error) {
	p, err := f.position("Frame.LocCell", label)
	if err != nil {
		return nil, err
	}
	if !f.hasColumn(column) {
		return nil, errors.NewColumnNotFoundError("Frame.LocCell", column, f.df.Names())
	}
	return f.df.Col(column).Elem(p).Copy(), nil
}

// LocSelect combines LocList and Select.
func (f *Frame) LocSelect(labels []interface{}, columns []string) (*Frame, error) {
	rows, err := f.LocList(labels...)
	if err != nil {
		return nil, err
	}
	return rows.Select(columns...)
}

// ILoc は位置で1行を取り出す。負の位置は末尾から数える
func (f *Frame) ILoc(p int) (*Row, error) {
	q, err := normalize("Frame.ILoc", p, f.Len(), 0)
	if err != nil {
		return nil, err
	}
	return f.row(q), nil
}

// ILocKey accepts an arbitrary key and rejects anything that is not an
// integer position with a TypeError.
func (f *Frame) ILocKey(key interface{}) (*Row, error) {
	switch v := key.(type) {
	case int:
		return f.ILoc(v)
	case int64:
		return f.ILoc(int(v))
	case int32:
		return f.ILoc(int(v))
	default:
		return nil, errors.NewTypeError("Frame.ILoc", "integer position", key)
	}
}

// ILocList returns the rows at the given positions, in order.
func (f *Frame) ILocList(positions ...int) (*Frame, error) {
	out := make([]int, len(positions))
	for i, p := range positions {
		q, err := normalize("Frame.ILocList", p, f.Len(), 0)
		if err != nil {
			return nil, err
		}
		out[i] = q
	}
	return f.rows(out), nil
}

// ILocCell returns the value at (row position, column position).
func (f *Frame) ILocCell(row, col int) (series.Element, error) {
	r, err := normalize("Frame.ILocCell", row, f.Len(), 0)
	if err != nil {
		return nil, err
	}
	c, err := normalize("Frame.ILocCell", col, f.df.Ncol(), 1)
	if err != nil {
		return nil, err
	}
	return f.df.Elem(r, c).Copy(), nil
}

// ILocColumns selects columns by position; negative positions wrap.
func (f *Frame) ILocColumns(positions ...int) (*Frame, error) {
	idx := make([]int, len(positions))
	for i, p := range positions {
		q, err := normalize("Frame.ILocColumns", p, f.df.Ncol(), 1)
		if err != nil {
			return nil, err
		}
		idx[i] = q
	}
	names := f.df.Names()
	sel := make([]string, len(idx))
	for i, q := range idx {
		sel[i] = names[q]
	}
	return f.Select(sel...)
}

// ILocSelect selects rows and columns by position.
func (f *Frame) ILocSelect(rows, cols []int) (*Frame, error) {
	sub, err := f.ILocList(rows...)
	if err != nil {
		return nil, err
	}
	return sub.ILocColumns(cols...)
}
