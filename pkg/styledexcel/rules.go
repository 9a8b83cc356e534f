package styledexcel

import (
	"fmt"

	"github.com/locvowork/excelstyler/pkg/excelformat"
)

// Rule styles the cells of Column whose value compares true against Value.
// Op is one of ==, !=, >, >=, <, <=, in.
type Rule struct {
	Column string                 `yaml:"column"`
	Op     string                 `yaml:"op"`
	Value  interface{}            `yaml:"value"`
	Style  excelformat.Descriptor `yaml:"style"`
}

// RuleTable is a table that can compare a column against a value.
type RuleTable interface {
	excelformat.Table
	ColumnIndex(name string) int
	Mask(col, op string, value interface{}) ([]bool, error)
}

// ApplyRules merges the style of every matching rule into m, in order, so later rules win
// on overlapping properties. m may address the index column as column 0.
func ApplyRules(m *Matrix, t RuleTable, rules []Rule) error {
	rows, cols := m.Shape()
	shift := cols - t.Ncol()
	if rows != t.Nrow() || (shift != 0 && shift != 1) {
		_, err := CheckShape(m, t, true)
		return err
	}

	for _, rule := range rules {
		col := t.ColumnIndex(rule.Column)
		if col < 0 {
			return fmt.Errorf("rule on %q: %w", rule.Column, excelformat.ErrUnknownColumn)
		}
		mask, err := t.Mask(rule.Column, rule.Op, rule.Value)
		if err != nil {
			return fmt.Errorf("rule on %q: %w", rule.Column, err)
		}
		for r, hit := range mask {
			if !hit {
				continue
			}
			if err := m.Merge(r, col+shift, rule.Style); err != nil {
				return err
			}
		}
	}
	return nil
}
