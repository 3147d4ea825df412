// Package explore walks through inspecting, indexing, filtering and grouping
// the gapminder table.
package explore

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/scigo-labs/config"
	"github.com/YuminosukeSato/scigo-labs/frame"
	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
	"github.com/YuminosukeSato/scigo-labs/pkg/log"
	"github.com/YuminosukeSato/scigo-labs/plotting"
	"github.com/YuminosukeSato/scigo-labs/tutorial"
)

// PlotFileName is written under the output directory.
const PlotFileName = "life_expectancy.png"

// ColumnSlices are applied in order by the column slicing step.
var ColumnSlices = []string{":3", "3:6", "0:6:2", "0:6:", "0::2", ":6:2", "::2", "::"}

// subsetLabels replace the default index of the four-row subset.
var subsetLabels = []string{"one", "two", "three", "four"}

type session struct {
	cfg    *config.Config
	df     *frame.Frame
	report *tutorial.Report
	logger log.Logger
}

// Run executes the exploration against cfg.DataPath and prints every step to w.
func Run(ctx context.Context, cfg *config.Config, w io.Writer) (*tutorial.Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := log.GetLoggerWithName("tutorial.explore")
	if id := tutorial.RunIDFrom(ctx); id != "" {
		logger = logger.With(log.RunIDKey, id)
	}
	s := &session{cfg: cfg, report: &tutorial.Report{}, logger: logger}

	logger.Info("Exploration started", log.FramePathKey, cfg.DataPath)
	if err := tutorial.RunSteps(ctx, logger, w, s.report, s.steps()); err != nil {
		return s.report, err
	}
	logger.Info("Exploration finished", "steps", len(s.report.Steps))
	return s.report, nil
}

func (s *session) steps() []tutorial.Step {
	return []tutorial.Step{
		{Name: "load", Run: s.load},
		{Name: "inspect", Run: s.inspect},
		{Name: "columns", Run: s.columns},
		{Name: "column_by_position", Run: s.columnByPosition, Expect: tutorial.Expect[*errors.ColumnNotFoundError]()},
		{Name: "loc_rows", Run: s.locRows},
		{Name: "loc_negative_label", Run: s.locNegative, Expect: tutorial.Expect[*errors.KeyError]()},
		{Name: "last_row", Run: s.lastRow},
		{Name: "iloc_rows", Run: s.ilocRows},
		{Name: "mixed_subset", Run: s.mixedSubset},
		{Name: "iloc_by_label", Run: s.ilocByLabel, Expect: tutorial.Expect[*errors.TypeError]()},
		{Name: "column_positions", Run: s.columnPositions},
		{Name: "column_range_out_of_bounds", Run: s.columnRangeOutOfBounds, Expect: tutorial.Expect[*errors.IndexError]()},
		{Name: "column_slices", Run: s.columnSlices},
		{Name: "cells", Run: s.cells},
		{Name: "cell_by_column_position_label", Run: s.cellByPositionLabel, Expect: tutorial.Expect[*errors.ColumnNotFoundError]()},
		{Name: "rows_and_columns", Run: s.rowsAndColumns},
		{Name: "filters", Run: s.filters},
		{Name: "groupby_mean", Run: s.groupByMean},
		{Name: "groupby_multi", Run: s.groupByMulti},
		{Name: "counts", Run: s.counts},
		{Name: "plot_life_expectancy", Run: s.plotLifeExpectancy},
	}
}

func labels(v []int) []interface{} {
	out := make([]interface{}, len(v))
	for i, x := range v {
		out[i] = x
	}
	return out
}

func span(start, stop int) []int {
	out := make([]int, 0, stop-start)
	for i := start; i < stop; i++ {
		out = append(out, i)
	}
	return out
}

func (s *session) load(_ context.Context, w io.Writer) error {
	df, err := frame.Load(s.cfg.DataPath, frame.WithDelimiter(s.cfg.DelimiterRune()), frame.WithHeader(true))
	if err != nil {
		return err
	}
	s.df = df
	rows, cols := df.Shape()
	_, err = fmt.Fprintf(w, "loaded %s: %d rows, %d columns\n", s.cfg.DataPath, rows, cols)
	return err
}

func (s *session) inspect(_ context.Context, w io.Writer) error {
	rows, cols := s.df.Shape()
	fmt.Fprintln(w, s.df.Head(s.cfg.HeadRows))
	fmt.Fprintf(w, "%T\n", s.df)
	fmt.Fprintf(w, "(%d, %d)\n", rows, cols)
	fmt.Fprintf(w, "columns: [%s]\n", strings.Join(s.df.Columns(), ", "))
	for _, ct := range s.df.Dtypes() {
		fmt.Fprintf(w, "%-10s %s\n", ct.Column, ct.Dtype)
	}
	fmt.Fprint(w, s.df.Info())
	idx := s.df.Index()
	if len(idx) == 0 {
		_, err := fmt.Fprintln(w, "index: empty")
		return err
	}
	_, err := fmt.Fprintf(w, "index: %d labels, %s to %s\n", len(idx), idx[0], idx[len(idx)-1])
	return err
}

func (s *session) columns(_ context.Context, w io.Writer) error {
	country, err := s.df.Col("country")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, country.Head(5))
	fmt.Fprintln(w, country.Tail(5))

	subset, err := s.df.Select("country", "continent", "year")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, subset.Head(5))
	_, err = fmt.Fprintln(w, subset.Tail(5))
	return err
}

// 列名として位置を渡すと見つからない
func (s *session) columnByPosition(_ context.Context, w io.Writer) error {
	sub, err := s.df.Select("1")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, sub)
	return err
}

func (s *session) locRows(_ context.Context, w io.Writer) error {
	for _, label := range s.cfg.SampleRows {
		row, err := s.df.Loc(label)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, row)
	}
	rows, err := s.df.LocList(labels(s.cfg.SampleRows)...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, rows)
	return err
}

func (s *session) locNegative(_ context.Context, w io.Writer) error {
	row, err := s.df.Loc(-1)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, row)
	return err
}

func (s *session) lastRow(_ context.Context, w io.Writer) error {
	row, err := s.df.Loc(s.df.Len() - 1)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, row)
	tail := s.df.Tail(1)
	fmt.Fprintln(w, tail)

	head := s.df.Head(1)
	_, err = fmt.Fprintf(w, "%T\n%T\n", row, head)
	return err
}

func (s *session) ilocRows(_ context.Context, w io.Writer) error {
	for _, p := range []int{1, -1} {
		row, err := s.df.ILoc(p)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, row)
	}
	rows, err := s.df.ILocList(s.cfg.SampleRows...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, rows)
	return err
}

func (s *session) subset() (*frame.Frame, error) {
	sub, err := s.df.LocSelect(labels(span(0, 4)), []string{"year", "pop"})
	if err != nil {
		return nil, err
	}
	return sub.SetIndex(subsetLabels)
}

func (s *session) mixedSubset(_ context.Context, w io.Writer) error {
	sub, err := s.df.LocSelect(labels(span(0, 4)), []string{"year", "pop"})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "index: %v\n", sub.Index())

	sub, err = s.subset()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "index: %v\n", sub.Index())

	row, err := sub.Loc("one")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, row)
	row, err = sub.ILoc(0)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, row)
	return err
}

// 位置インデクサにラベルは渡せない
func (s *session) ilocByLabel(_ context.Context, w io.Writer) error {
	sub, err := s.subset()
	if err != nil {
		return err
	}
	row, err := sub.ILocKey("one")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, row)
	return err
}

func (s *session) columnPositions(_ context.Context, w io.Writer) error {
	for _, positions := range [][]int{{2, 4, -1}, span(0, 5), span(3, 6)} {
		sub, err := s.df.ILocColumns(positions...)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%v -> %v\n", positions, sub.Columns())
	}
	return nil
}

func (s *session) columnRangeOutOfBounds(_ context.Context, w io.Writer) error {
	sub, err := s.df.ILocColumns(span(0, 10)...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, sub.Columns())
	return err
}

func (s *session) columnSlices(_ context.Context, w io.Writer) error {
	for _, expr := range ColumnSlices {
		sl, err := frame.ParseSlice(expr)
		if err != nil {
			return err
		}
		sub, err := s.df.SliceColumns(sl)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "[:, %s] -> %v\n", expr, sub.Columns())
	}
	return nil
}

func (s *session) cells(_ context.Context, w io.Writer) error {
	byLabel, err := s.df.LocCell(42, "country")
	if err != nil {
		return err
	}
	byPos, err := s.df.ILocCell(42, 0)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n", byLabel, byPos)
	return err
}

// ラベル参照で列位置を渡すと列名として解釈される
func (s *session) cellByPositionLabel(_ context.Context, w io.Writer) error {
	v, err := s.df.LocCell(42, "0")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, v)
	return err
}

func (s *session) rowsAndColumns(_ context.Context, w io.Writer) error {
	byPos, err := s.df.ILocSelect(s.cfg.SampleRows, []int{0, 3, 5})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, byPos)

	cols := []string{"country", "lifeExp", "gdpPercap"}
	byLabel, err := s.df.LocSelect(labels(s.cfg.SampleRows), cols)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, byLabel)

	rng, err := s.df.LocRange(10, 13)
	if err != nil {
		return err
	}
	rng, err = rng.Select(cols...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, rng)
	return err
}

func (s *session) filters(_ context.Context, w io.Writer) error {
	cases := []struct {
		desc string
		pred frame.Predicate
		head int
	}{
		{"year == 1952", frame.Eq("year", 1952), 5},
		{"year == 1952 & country == Albania", frame.And(frame.Eq("year", 1952), frame.Eq("country", "Albania")), 0},
		{"year in [1952, 1957]", frame.In("year", 1952, 1957), 5},
		{"year == 1952 | country == Albania", frame.Or(frame.Eq("year", 1952), frame.Eq("country", "Albania")), 0},
	}
	for _, c := range cases {
		out, err := s.df.Filter(c.pred)
		if err != nil {
			return errors.Wrapf(err, "filter %s", c.desc)
		}
		if c.head > 0 {
			out = out.Head(c.head)
		}
		fmt.Fprintf(w, "%s (%d rows)\n%s\n", c.desc, out.Len(), out)
	}
	_, err := fmt.Fprintln(w, s.df.Head(10))
	return err
}

func (s *session) lifeExpByYear() (*frame.Series, error) {
	g, err := s.df.GroupBy("year")
	if err != nil {
		return nil, err
	}
	means, err := g.Mean("lifeExp")
	if err != nil {
		return nil, err
	}
	return means.Col("lifeExp")
}

func (s *session) groupByMean(_ context.Context, w io.Writer) error {
	g, err := s.df.GroupBy("year")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%T\n%s\n", g, g)

	life, err := s.lifeExpByYear()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, life)
	return err
}

func (s *session) groupByMulti(_ context.Context, w io.Writer) error {
	g, err := s.df.GroupBy("year", "continent")
	if err != nil {
		return err
	}
	multi, err := g.Mean("lifeExp", "gdpPercap")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, multi)

	flat, err := multi.ResetIndex()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, flat.Head(15))
	return err
}

func (s *session) counts(_ context.Context, w io.Writer) error {
	g, err := s.df.GroupBy("continent")
	if err != nil {
		return err
	}
	n, err := g.NUnique("country")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, n)

	for _, col := range []string{"country", "continent"} {
		c, err := s.df.Col(col)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, c.ValueCounts())
	}
	return nil
}

func (s *session) plotLifeExpectancy(_ context.Context, w io.Writer) error {
	life, err := s.lifeExpByYear()
	if err != nil {
		return err
	}
	years, err := life.IndexFloats()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, life)

	path := filepath.Join(s.cfg.OutputDir, PlotFileName)
	err = plotting.SeriesLine(years, life.Float(), path,
		plotting.WithTitle("Global yearly life expectancy"),
		plotting.WithLabels("year", "lifeExp"),
		plotting.WithSize(vg.Length(s.cfg.PlotWidthIn)*vg.Inch, vg.Length(s.cfg.PlotHeightIn)*vg.Inch),
	)
	if err != nil {
		return err
	}
	s.report.AddOutput(path)
	s.logger.Info("Plot written", log.OutputPathKey, path)
	_, err = fmt.Fprintf(w, "saved %s\n", path)
	return err
}
