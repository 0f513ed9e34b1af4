package platemap

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatName(t *testing.T) {
	cases := []struct {
		rows, columns int
		want          string
	}{
		{8, 12, "96-well"},
		{12, 8, "96-well"},
		{16, 24, "384-well"},
		{24, 64, "1536-well"},
		{2, 3, "6-well"},
		{1, 1, "1-well"},
		{16, 25, "400-well"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%dx%d", tc.rows, tc.columns), func(t *testing.T) {
			assert.Equal(t, tc.want, FormatName(tc.rows, tc.columns))
		})
	}
}

func TestFormatNameMatchesWellCount(t *testing.T) {
	named := map[int]string{96: "96-well", 384: "384-well", 1536: "1536-well"}
	for rows := 1; rows <= MaxRows; rows++ {
		for columns := 1; columns <= 64; columns++ {
			n := rows * columns
			want, ok := named[n]
			if !ok {
				want = strconv.Itoa(n) + "-well"
			}
			require.Equal(t, want, FormatName(rows, columns), "rows=%d columns=%d", rows, columns)
		}
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "A", RowLabel(0))
	assert.Equal(t, "B", RowLabel(1))
	assert.Equal(t, "P", RowLabel(15))
	assert.Equal(t, "Z", RowLabel(25))
	assert.Equal(t, "", RowLabel(26))
	assert.Equal(t, "", RowLabel(-1))

	assert.Equal(t, "1", ColumnLabel(0))
	assert.Equal(t, "24", ColumnLabel(23))

	assert.Equal(t, "A1", Position(0, 0))
	assert.Equal(t, "P24", Position(15, 23))
	assert.Equal(t, "C12", Position(2, 11))
}

func TestLabelsAreSingleUppercaseLetters(t *testing.T) {
	for row := 0; row < MaxRows; row++ {
		label := RowLabel(row)
		require.Len(t, label, 1)
		assert.True(t, label[0] >= 'A' && label[0] <= 'Z')
		for column := 0; column < 48; column++ {
			assert.Equal(t, label+strconv.Itoa(column+1), Position(row, column))
		}
	}
}

func TestValidatePosition(t *testing.T) {
	require.NoError(t, ValidatePosition(2, 3, 0, 0))
	require.NoError(t, ValidatePosition(2, 3, 1, 2))

	err := ValidatePosition(2, 3, 2, 0)
	require.Error(t, err)
	assert.Equal(t, "row must be between 0 and 1", err.Error())

	err = ValidatePosition(2, 3, -1, 0)
	require.Error(t, err)
	var rangeErr *RangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, "row", rangeErr.Axis)

	err = ValidatePosition(2, 3, 0, 3)
	require.Error(t, err)
	assert.Equal(t, "column must be between 0 and 2", err.Error())

	assert.Error(t, ValidatePosition(2, 3, 0, -1))
}

func TestValidateDimensions(t *testing.T) {
	assert.NoError(t, ValidateDimensions(16, 24))
	assert.NoError(t, ValidateDimensions(1, 1))
	assert.NoError(t, ValidateDimensions(MaxRows, 48))
	assert.Error(t, ValidateDimensions(0, 24))
	assert.Error(t, ValidateDimensions(16, 0))
	assert.Error(t, ValidateDimensions(MaxRows+1, 48))
}
