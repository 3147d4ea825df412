package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-gota/gota/series"
)

// MaxRows is the number of rows printed before String elides the middle.
const MaxRows = 60

// formatElem renders floats with at most six decimals and no trailing zeros.
func formatElem(e series.Element) string {
	if e.IsNA() {
		return "NaN"
	}
	if e.Type() == series.Float {
		return formatFloat(e.Float())
	}
	return e.String()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// visibleRows は表示する行位置を返す。省略がある場合は -1 を挟む
func visibleRows(n int) []int {
	if n <= MaxRows {
		return seq(0, n)
	}
	out := append(seq(0, 5), -1)
	return append(out, seq(n-5, n)...)
}

func (f *Frame) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)

	names := f.df.Names()
	header := append(f.IndexNames(), names...)
	if len(f.levels) == 0 {
		header = append([]string{""}, names...)
	}
	fmt.Fprintln(w, strings.Join(header, "\t")+"\t")

	for _, r := range visibleRows(f.Len()) {
		var cells []string
		if r < 0 {
			for range header {
				cells = append(cells, "...")
			}
			fmt.Fprintln(w, strings.Join(cells, "\t")+"\t")
			continue
		}
		if len(f.levels) == 0 {
			cells = append(cells, f.index[r])
		}
		for _, l := range f.levels {
			cells = append(cells, formatElem(l.Elem(r)))
		}
		for j := range names {
			cells = append(cells, formatElem(f.df.Elem(r, j)))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t")+"\t")
	}
	w.Flush()

	if f.Len() > MaxRows || f.Len() == 0 {
		fmt.Fprintf(&b, "\n[%d rows x %d columns]\n", f.Len(), f.df.Ncol())
	}
	return b.String()
}

func (r *Row) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 4, ' ', 0)
	for i, n := range r.names {
		fmt.Fprintf(w, "%s\t%s\n", n, formatElem(r.values[i]))
	}
	w.Flush()
	fmt.Fprintf(&b, "Name: %s\n", r.Label)
	return b.String()
}

func (s *Series) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 4, ' ', 0)
	for _, i := range visibleRows(s.Len()) {
		if i < 0 {
			fmt.Fprintln(w, "...\t")
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", s.index[i], formatElem(s.s.Elem(i)))
	}
	w.Flush()
	fmt.Fprintf(&b, "Name: %s, Length: %d, dtype: %s\n", s.Name(), s.Len(), s.Dtype())
	return b.String()
}

// Info は列ごとの非欠損数と型の要約を返す
func (f *Frame) Info() string {
	var b strings.Builder
	rows, cols := f.Shape()
	fmt.Fprintln(&b, "<frame.Frame>")
	if rows > 0 {
		fmt.Fprintf(&b, "Index: %d entries, %s to %s\n", rows, f.index[0], f.index[rows-1])
	} else {
		fmt.Fprintln(&b, "Index: 0 entries")
	}
	fmt.Fprintf(&b, "Data columns (total %d columns):\n", cols)

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, " #\tColumn\tNon-Null Count\tDtype")
	fmt.Fprintln(w, "---\t------\t--------------\t-----")
	counts := make(map[string]int)
	for j, ct := range f.Dtypes() {
		col := f.df.Col(ct.Column)
		nonNull := 0
		for i := 0; i < col.Len(); i++ {
			if !col.Elem(i).IsNA() {
				nonNull++
			}
		}
		counts[ct.Dtype]++
		fmt.Fprintf(w, " %d\t%s\t%d non-null\t%s\n", j, ct.Column, nonNull, ct.Dtype)
	}
	w.Flush()

	var parts []string
	for _, t := range []string{string(series.Bool), string(series.Float), string(series.Int), string(series.String)} {
		if counts[t] > 0 {
			parts = append(parts, fmt.Sprintf("%s(%d)", t, counts[t]))
		}
	}
	fmt.Fprintf(&b, "dtypes: %s\n", strings.Join(parts, ", "))
	return b.String()
}
