package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableToCSV(t *testing.T) {
	table := Table{
		Name:   "late_fines_2024-03",
		Header: []string{"Employee", "Late Count", "Fine"},
		Rows: [][]string{
			{"alice#1001", "4", "2000"},
			{"bob#2002", "1", "0"},
		},
	}

	got, err := table.ToCSV()
	require.NoError(t, err)
	assert.Equal(t, "Employee,Late Count,Fine\nalice#1001,4,2000\nbob#2002,1,0\n", string(got))

	// Same input, same bytes.
	again, err := table.ToCSV()
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestTableToCSVQuoting(t *testing.T) {
	table := Table{
		Name:   "raw_attendance_2024-03",
		Header: []string{"Employee", "Date"},
		Rows:   [][]string{{`smith, jr#1`, "2024-03-05"}},
	}

	got, err := table.ToCSV()
	require.NoError(t, err)
	assert.Equal(t, "Employee,Date\n\"smith, jr#1\",2024-03-05\n", string(got))
}

func TestTableEmptyAndFilename(t *testing.T) {
	table := Table{Name: "employee_summary_2024-03", Header: []string{"Employee"}}
	assert.True(t, table.Empty())
	assert.Equal(t, "employee_summary_2024-03.csv", table.Filename())

	table.Rows = [][]string{{"alice#1001"}}
	assert.False(t, table.Empty())
}
