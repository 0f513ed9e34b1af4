// Package platemap bildet Well-Koordinaten (row, column) auf lesbare Labels
// ab ("A1", "P24") und klassifiziert Plattenformate anhand der Well-Anzahl.
package platemap

import (
	"fmt"
	"strconv"
)

const (
	DefaultRows    = 16
	DefaultColumns = 24

	// MaxRows ist die größte Zeilenanzahl mit einbuchstabigem Label (A-Z).
	MaxRows = 26
)

var formatNames = map[int]string{
	96:   "96-well",
	384:  "384-well",
	1536: "1536-well",
}

// RowLabel liefert den Buchstaben einer Zeile: 0 -> "A", 25 -> "Z".
// Für Zeilen außerhalb von [0, MaxRows) wird "" zurückgegeben.
func RowLabel(row int) string {
	if row < 0 || row >= MaxRows {
		return ""
	}
	return string(rune('A' + row))
}

// ColumnLabel liefert die 1-basierte Spaltennummer als String.
func ColumnLabel(column int) string {
	return strconv.Itoa(column + 1)
}

// Position liefert das kombinierte Label, z.B. "A1".
func Position(row, column int) string {
	return RowLabel(row) + ColumnLabel(column)
}

// WellCount ist die Kapazität einer Platte.
func WellCount(rows, columns int) int {
	return rows * columns
}

// FormatName klassifiziert eine Platte nach ihrer Kapazität.
func FormatName(rows, columns int) string {
	n := WellCount(rows, columns)
	if name, ok := formatNames[n]; ok {
		return name
	}
	return fmt.Sprintf("%d-well", n)
}

// RangeError beschreibt eine Koordinate außerhalb des gültigen Bereichs.
type RangeError struct {
	Axis string
	Min  int
	Max  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %d and %d", e.Axis, e.Min, e.Max)
}

// ValidateDimensions prüft die Abmessungen einer neuen Platte.
func ValidateDimensions(rows, columns int) error {
	if rows < 1 || rows > MaxRows {
		return &RangeError{Axis: "rows", Min: 1, Max: MaxRows}
	}
	if columns < 1 {
		return fmt.Errorf("columns must be at least 1")
	}
	return nil
}

// ValidatePosition prüft 0 <= row < rows und 0 <= column < columns.
func ValidatePosition(rows, columns, row, column int) error {
	if row < 0 || row >= rows {
		return &RangeError{Axis: "row", Min: 0, Max: rows - 1}
	}
	if column < 0 || column >= columns {
		return &RangeError{Axis: "column", Min: 0, Max: columns - 1}
	}
	return nil
}
