// Package frame is a small labelled data frame over gota.
//
// A Frame pairs a gota DataFrame with an ordered row index of string labels,
// so that rows can be addressed both by label (Loc) and by position (ILoc)
// the way the pandas tutorials do it. Every operation returns a new Frame;
// the receiver is never modified.
package frame

import (
	"io"
	"os"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
	"github.com/YuminosukeSato/scigo-labs/pkg/log"
)

// Frame はラベル付き行インデックスを持つ表
type Frame struct {
	df    dataframe.DataFrame
	index []string
	pos   map[string]int

	// levels は GroupBy 結果のキー列（ResetIndex で列に戻る）
	levels []series.Series
}

// LoadOption configures Load and ReadFrom.
type LoadOption func(*loadConfig)

type loadConfig struct {
	delimiter rune
	header    bool
}

// WithDelimiter sets the field separator (default tab).
func WithDelimiter(d rune) LoadOption {
	return func(c *loadConfig) { c.delimiter = d }
}

// WithHeader sets whether the first line holds column names (default true).
func WithHeader(h bool) LoadOption {
	return func(c *loadConfig) { c.header = h }
}

// Load reads a delimited file.
//
//	df, err := frame.Load("testdata/gapminder.tsv")
func Load(path string, opts ...LoadOption) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "frame: open %s", path)
	}
	defer f.Close()

	fr, err := ReadFrom(f, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "frame: load %s", path)
	}
	rows, cols := fr.Shape()
	log.GetLoggerWithName("frame").Info("Frame loaded",
		log.OperationKey, log.OperationLoad,
		log.FramePathKey, path,
		log.FrameRowsKey, rows,
		log.FrameColumnsKey, cols,
	)
	return fr, nil
}

// ReadFrom は区切り文字付きテキストを読み込み、型を推定した Frame を返す
func ReadFrom(r io.Reader, opts ...LoadOption) (fr *Frame, err error) {
	defer errors.Recover(&err, "frame.ReadFrom")

	cfg := loadConfig{delimiter: '\t', header: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(cfg.delimiter),
		dataframe.HasHeader(cfg.header),
		dataframe.DetectTypes(true),
	)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "frame: parse")
	}
	if df.Ncol() == 0 {
		return nil, errors.NewModelError("frame.ReadFrom", "no columns", errors.ErrEmptyData)
	}
	return newFrame(df, nil, nil), nil
}

// New wraps columns into a Frame with a default index.
func New(cols ...series.Series) (*Frame, error) {
	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "frame: new")
	}
	return newFrame(df, nil, nil), nil
}

// FromDataFrame wraps an existing gota DataFrame with a default index.
func FromDataFrame(df dataframe.DataFrame) (*Frame, error) {
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "frame: from dataframe")
	}
	return newFrame(df, nil, nil), nil
}

func defaultIndex(n int) []string {
	idx := make([]string, n)
	for i := range idx {
		idx[i] = strconv.Itoa(i)
	}
	return idx
}

// newFrame は index が nil の場合 0..n-1 を割り当てる
func newFrame(df dataframe.DataFrame, index []string, levels []series.Series) *Frame {
	if index == nil {
		index = defaultIndex(df.Nrow())
	}
	pos := make(map[string]int, len(index))
	for i, l := range index {
		if _, dup := pos[l]; !dup {
			pos[l] = i
		}
	}
	return &Frame{df: df, index: index, pos: pos, levels: levels}
}

// DataFrame returns the underlying gota DataFrame.
func (f *Frame) DataFrame() dataframe.DataFrame {
	return f.df.Copy()
}

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) {
	return f.df.Dims()
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.df.Nrow()
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return f.df.Names()
}

// Index returns the row labels.
func (f *Frame) Index() []string {
	return append([]string(nil), f.index...)
}

// IndexNames returns the names of the group-key levels, if any.
func (f *Frame) IndexNames() []string {
	names := make([]string, len(f.levels))
	for i, l := range f.levels {
		names[i] = l.Name
	}
	return names
}

// ColumnType describes one column.
type ColumnType struct {
	Column string
	Dtype  string
}

// Dtypes returns the type of every column in order.
func (f *Frame) Dtypes() []ColumnType {
	names := f.df.Names()
	types := f.df.Types()
	out := make([]ColumnType, len(names))
	for i := range names {
		out[i] = ColumnType{Column: names[i], Dtype: string(types[i])}
	}
	return out
}

// SetIndex はラベルを置き換えた Frame を返す。ラベルは一意でなければならない
func (f *Frame) SetIndex(labels []string) (*Frame, error) {
	if len(labels) != f.Len() {
		return nil, errors.NewDimensionError("Frame.SetIndex", f.Len(), len(labels), 0)
	}
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if seen[l] {
			return nil, errors.NewValidationError("index", "labels must be unique", l)
		}
		seen[l] = true
	}
	return newFrame(f.df.Copy(), append([]string(nil), labels...), nil), nil
}

// ResetIndex moves the index into columns and restores the default index.
// Group keys become leading columns; a plain label index becomes an
// "index" column.
func (f *Frame) ResetIndex() (*Frame, error) {
	var cols []series.Series
	if len(f.levels) > 0 {
		for _, l := range f.levels {
			cols = append(cols, l.Copy())
		}
	} else {
		cols = append(cols, series.New(f.index, series.String, "index"))
	}
	for _, name := range f.df.Names() {
		cols = append(cols, f.df.Col(name).Copy())
	}
	return New(cols...)
}

// Col returns one column as a Series sharing the frame's index.
func (f *Frame) Col(name string) (*Series, error) {
	if !f.hasColumn(name) {
		return nil, errors.NewColumnNotFoundError("Frame.Col", name, f.df.Names())
	}
	return newSeries(f.df.Col(name).Copy(), f.Index()), nil
}

// Select returns the named columns in the order given.
func (f *Frame) Select(names ...string) (*Frame, error) {
	for _, n := range names {
		if !f.hasColumn(n) {
			return nil, errors.NewColumnNotFoundError("Frame.Select", n, f.df.Names())
		}
	}
	sel := f.df.Select(names)
	if sel.Err != nil {
		return nil, errors.Wrap(sel.Err, "frame: select")
	}
	return f.withColumns(sel), nil
}

func (f *Frame) hasColumn(name string) bool {
	for _, n := range f.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// withColumns keeps the row index of f for a column subset.
func (f *Frame) withColumns(df dataframe.DataFrame) *Frame {
	return newFrame(df, f.Index(), f.levels)
}

// Head returns the first n rows. A negative n drops the last |n| rows.
func (f *Frame) Head(n int) *Frame {
	rows := f.Len()
	if n < 0 {
		n = max(rows+n, 0)
	}
	return f.rows(seq(0, min(n, rows)))
}

// Tail returns the last n rows. A negative n drops the first |n| rows.
func (f *Frame) Tail(n int) *Frame {
	rows := f.Len()
	if n < 0 {
		n = max(rows+n, 0)
	}
	return f.rows(seq(rows-min(n, rows), rows))
}

func seq(start, end int) []int {
	out := make([]int, 0, max(end-start, 0))
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

// rows は位置 positions の行を順に取り出す。positions は範囲内であること
func (f *Frame) rows(positions []int) *Frame {
	index := make([]string, len(positions))
	for i, p := range positions {
		index[i] = f.index[p]
	}
	var levels []series.Series
	for _, l := range f.levels {
		levels = append(levels, subsetSeries(l, positions))
	}

	if len(positions) == 0 {
		cols := make([]series.Series, f.df.Ncol())
		for j, name := range f.df.Names() {
			cols[j] = series.New([]string{}, f.df.Col(name).Type(), name)
		}
		return newFrame(dataframe.New(cols...), index, levels)
	}
	return newFrame(f.df.Subset(positions), index, levels)
}

func subsetSeries(s series.Series, positions []int) series.Series {
	if len(positions) == 0 {
		return series.New([]string{}, s.Type(), s.Name)
	}
	return s.Subset(positions)
}
