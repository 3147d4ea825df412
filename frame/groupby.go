package frame

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
	"github.com/YuminosukeSato/scigo-labs/pkg/log"
)

// KeySeparator joins the values of a multi-column group key into a label.
const KeySeparator = "|"

// Grouped はキー列でまとめた行の集合。グループはキーの昇順に並ぶ
type Grouped struct {
	f      *Frame
	keys   []string
	groups []group
}

type group struct {
	label string
	rows  []int
}

// GroupBy groups rows by one or more key columns. Numeric keys sort
// numerically, everything else lexically.
func (f *Frame) GroupBy(keys ...string) (g *Grouped, err error) {
	defer errors.Recover(&err, "Frame.GroupBy")

	if len(keys) == 0 {
		return nil, errors.NewValidationError("keys", "at least one key column is required", keys)
	}
	cols := make([]series.Series, len(keys))
	for i, k := range keys {
		if !f.hasColumn(k) {
			return nil, errors.NewColumnNotFoundError("Frame.GroupBy", k, f.df.Names())
		}
		cols[i] = f.df.Col(k)
	}

	byLabel := make(map[string]int)
	var groups []group
	parts := make([]string, len(keys))
	for r := 0; r < f.Len(); r++ {
		for i, c := range cols {
			parts[i] = c.Elem(r).String()
		}
		label := strings.Join(parts, KeySeparator)
		gi, ok := byLabel[label]
		if !ok {
			gi = len(groups)
			byLabel[label] = gi
			groups = append(groups, group{label: label})
		}
		groups[gi].rows = append(groups[gi].rows, r)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		ra, rb := groups[a].rows[0], groups[b].rows[0]
		for _, c := range cols {
			ea, eb := c.Elem(ra), c.Elem(rb)
			if numeric(c.Type()) {
				if ea.Float() != eb.Float() {
					return ea.Float() < eb.Float()
				}
				continue
			}
			if ea.String() != eb.String() {
				return ea.String() < eb.String()
			}
		}
		return false
	})

	log.GetLoggerWithName("frame").Debug("Frame grouped",
		log.OperationKey, log.OperationGroupBy,
		log.FrameGroupKeysKey, keys,
		"frame.groups", len(groups),
	)
	return &Grouped{f: f, keys: append([]string(nil), keys...), groups: groups}, nil
}

// Keys returns the key column names.
func (g *Grouped) Keys() []string {
	return append([]string(nil), g.keys...)
}

// NGroups returns the number of groups.
func (g *Grouped) NGroups() int {
	return len(g.groups)
}

// Labels returns the group labels in order.
func (g *Grouped) Labels() []string {
	out := make([]string, len(g.groups))
	for i, gr := range g.groups {
		out[i] = gr.label
	}
	return out
}

// Get returns the rows of one group.
func (g *Grouped) Get(label interface{}) (*Frame, error) {
	l, err := labelOf("Grouped.Get", label)
	if err != nil {
		return nil, err
	}
	for _, gr := range g.groups {
		if gr.label == l {
			return g.f.rows(gr.rows), nil
		}
	}
	return nil, errors.NewKeyError("Grouped.Get", l)
}

func (g *Grouped) String() string {
	return fmt.Sprintf("<Grouped by %s: %d groups>", strings.Join(g.keys, ", "), len(g.groups))
}

// levels returns the typed key values, one per group.
func (g *Grouped) levels() []series.Series {
	first := make([]int, len(g.groups))
	for i, gr := range g.groups {
		first[i] = gr.rows[0]
	}
	out := make([]series.Series, len(g.keys))
	for i, k := range g.keys {
		out[i] = subsetSeries(g.f.df.Col(k), first)
	}
	return out
}

func (g *Grouped) result(cols []series.Series) *Frame {
	return newFrame(dataframe.New(cols...), g.Labels(), g.levels())
}

// Mean は各グループの列平均を返す。欠損値は除外する
//
// columns を省略するとキー以外の数値列すべてが対象になる。
func (g *Grouped) Mean(columns ...string) (out *Frame, err error) {
	defer errors.Recover(&err, "Grouped.Mean")

	if len(columns) == 0 {
		for _, ct := range g.f.Dtypes() {
			if !contains(g.keys, ct.Column) && numeric(series.Type(ct.Dtype)) {
				columns = append(columns, ct.Column)
			}
		}
		if len(columns) == 0 {
			return nil, errors.NewValidationError("columns", "no numeric columns to aggregate", g.f.Columns())
		}
	}

	cols := make([]series.Series, len(columns))
	for j, name := range columns {
		if !g.f.hasColumn(name) {
			return nil, errors.NewColumnNotFoundError("Grouped.Mean", name, g.f.df.Names())
		}
		src := g.f.df.Col(name)
		if !numeric(src.Type()) {
			return nil, errors.NewTypeError("Grouped.Mean", "numeric column", name+" ("+string(src.Type())+")")
		}
		values := src.Float()
		means := make([]float64, len(g.groups))
		buf := make([]float64, 0)
		for i, gr := range g.groups {
			buf = buf[:0]
			for _, r := range gr.rows {
				buf = append(buf, values[r])
			}
			means[i] = nanMean(buf)
		}
		cols[j] = series.Floats(means)
		cols[j].Name = name
	}
	return g.result(cols), nil
}

// NUnique returns the number of distinct values of column in each group.
func (g *Grouped) NUnique(column string) (*Series, error) {
	if !g.f.hasColumn(column) {
		return nil, errors.NewColumnNotFoundError("Grouped.NUnique", column, g.f.df.Names())
	}
	src := g.f.df.Col(column)
	counts := make([]int, len(g.groups))
	for i, gr := range g.groups {
		counts[i] = newSeries(subsetSeries(src, gr.rows), nil).NUnique()
	}
	s := series.Ints(counts)
	s.Name = column
	return &Series{s: s, index: g.Labels()}, nil
}

// Size returns the number of rows in each group.
func (g *Grouped) Size() *Series {
	sizes := make([]int, len(g.groups))
	for i, gr := range g.groups {
		sizes[i] = len(gr.rows)
	}
	s := series.Ints(sizes)
	s.Name = "size"
	return &Series{s: s, index: g.Labels()}
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
