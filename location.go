package jsontoken

import "fmt"

// Location identifies a position in the input. Offset is zero-based and
// counts bytes; Line and Column are one-based.
type Location struct {
	Offset int64 `json:"offset"`
	Line   int   `json:"line"`
	Column int   `json:"column"`
}

// IsKnown reports whether the location was set
func (l Location) IsKnown() bool {
	return l.Line > 0
}

func (l Location) String() string {
	return fmt.Sprintf("line %d, column %d (offset %d)", l.Line, l.Column, l.Offset)
}
