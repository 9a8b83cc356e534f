package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/locvowork/excelstyler/internal/logger"
	"github.com/locvowork/excelstyler/pkg/excelformat"
	"github.com/locvowork/excelstyler/pkg/frame"
	"github.com/locvowork/excelstyler/pkg/styledexcel"
	"github.com/spf13/cobra"
)

var (
	boldStyle     = excelformat.Descriptor{excelformat.AspectFont: {"bold": true}}
	redFontStyle  = excelformat.Descriptor{excelformat.AspectFont: {"color": "red"}}
	redBgStyle    = excelformat.Descriptor{excelformat.AspectPattern: {"pattern": "solid_fill", "fore_color": "red"}}
	orangeBgStyle = excelformat.Descriptor{excelformat.AspectPattern: {"pattern": "solid_fill", "fore_color": "orange"}}
)

func newExamplesCommand() *cobra.Command {
	var dir string
	var rows int

	cmd := &cobra.Command{
		Use:   "examples",
		Short: "Write example workbooks showing manual, conditional and validation styles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			ctx := logger.Context(cmd.Context())
			df := randomData(rows)

			for _, ex := range []func(context.Context, dataframe.DataFrame, string) error{
				example1_ManualStyles,
				example2_ConditionalStyles,
				example3_ValidationColumns,
			} {
				if err := ex(ctx, df, dir); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "example_output", "Directory the workbooks are written to")
	cmd.Flags().IntVar(&rows, "rows", 20, "Number of random rows")

	return cmd
}

// randomData builds a frame with a float column in [0,1), an int column in [0,10] and a
// letter column.
func randomData(n int) dataframe.DataFrame {
	one := make([]float64, n)
	two := make([]int, n)
	three := make([]string, n)
	letters := []string{"a", "b", "c", "f"}
	for i := 0; i < n; i++ {
		one[i] = rand.Float64()
		two[i] = rand.Intn(11)
		three[i] = letters[rand.Intn(len(letters))]
	}
	return dataframe.New(
		series.New(one, series.Float, "one"),
		series.New(two, series.Int, "two"),
		series.New(three, series.String, "three"),
	)
}

func example1_ManualStyles(ctx context.Context, df dataframe.DataFrame, dir string) error {
	fmt.Println("Example 1: Styles set cell by cell")

	f := frame.New(df)
	styles := styledexcel.MatrixFor(f)
	for _, s := range []struct {
		row, col int
		style    excelformat.Descriptor
	}{
		{0, 0, boldStyle},
		{1, 1, redFontStyle},
		{2, 2, redBgStyle},
	} {
		if err := styles.Set(s.row, s.col, s.style); err != nil {
			return err
		}
	}

	out := filepath.Join(dir, "example1.xlsx")
	if err := styledexcel.ToExcel(ctx, f, out, styles); err != nil {
		return err
	}

	fmt.Println("✓ Created", out)
	fmt.Println("  - B2 is bold, C3 has a red font, D4 a red background")
	fmt.Println()
	return nil
}

func example2_ConditionalStyles(ctx context.Context, df dataframe.DataFrame, dir string) error {
	fmt.Println("Example 2: Conditional coloring")

	f := frame.New(df)
	styles := styledexcel.MatrixFor(f)
	col := f.ColumnIndex("one")

	low, err := f.Mask("one", "<", 0.25)
	if err != nil {
		return err
	}
	if err := styles.SetWhere(col, low, redBgStyle); err != nil {
		return err
	}

	// 0.25 <= one < 0.5
	atLeast, err := f.Mask("one", ">=", 0.25)
	if err != nil {
		return err
	}
	below, err := f.Mask("one", "<", 0.5)
	if err != nil {
		return err
	}
	mid := make([]bool, len(atLeast))
	for i := range mid {
		mid[i] = atLeast[i] && below[i]
	}
	if err := styles.SetWhere(col, mid, orangeBgStyle); err != nil {
		return err
	}

	out := filepath.Join(dir, "example2.xlsx")
	if err := styledexcel.ToExcel(ctx, f, out, styles); err != nil {
		return err
	}

	fmt.Println("✓ Created", out)
	fmt.Println("  - values of \"one\" below 0.25 are red, below 0.5 orange")
	fmt.Println()
	return nil
}

func example3_ValidationColumns(ctx context.Context, df dataframe.DataFrame, dir string) error {
	fmt.Println("Example 3: Styles from validation columns")

	f := frame.New(df)
	oneValid, err := f.Mask("one", ">=", 0.5)
	if err != nil {
		return err
	}
	threeValid, err := f.Mask("three", "in", []string{"a", "b", "c"})
	if err != nil {
		return err
	}
	df = df.
		Mutate(series.New(oneValid, series.Bool, "one_valid")).
		Mutate(series.New(threeValid, series.Bool, "three_valid"))
	if df.Err != nil {
		return df.Err
	}

	f = frame.New(df)
	styles, err := styledexcel.ValidationStyles(f, styledexcel.WithRemoveValidationColumns(true))
	if err != nil {
		return err
	}

	out := filepath.Join(dir, "example3.xlsx")
	if err := styledexcel.ToExcel(ctx, f, out, styles); err != nil {
		return err
	}

	fmt.Println("✓ Created", out)
	fmt.Println("  - invalid cells of \"one\" and \"three\" have a red background")
	fmt.Println("  - the _valid columns are not written")
	fmt.Println()
	return nil
}
