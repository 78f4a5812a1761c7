package reports

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorcenter/scheduler/services"
	"github.com/xuri/excelize/v2"
)

var rows = []services.SessionRow{
	{Date: "2024-03-15", Timeblock: "8:00 AM - 8:40 AM", Tutor: "Tina Turner", Course: "Calculus I", Student: "Sam Stone", Status: "Booked", Semester: "SPRING"},
	{Date: "2024-03-16", Timeblock: "8:40 AM - 9:20 AM", Tutor: "Tina Turner", Course: "Chemistry, Intro", Status: "Available", Semester: "SPRING"},
}

func TestCSV(t *testing.T) {
	b, err := CSV(rows)
	require.NoError(t, err)
	want := "Date,Timeblock,Tutor,Course,Student,Status,Semester\n" +
		"2024-03-15,8:00 AM - 8:40 AM,Tina Turner,Calculus I,Sam Stone,Booked,SPRING\n" +
		"2024-03-16,8:40 AM - 9:20 AM,Tina Turner,\"Chemistry, Intro\",,Available,SPRING\n"
	assert.Equal(t, want, string(b))
}

func TestXLSX(t *testing.T) {
	b, err := XLSX("Spring sessions", rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, header, got[0])
	assert.Equal(t, "Sam Stone", got[1][4])
	assert.Equal(t, "Chemistry, Intro", got[2][3])
}

func TestRender(t *testing.T) {
	r, err := Render(FormatCSV, "Sessions FALL/2024", rows)
	require.NoError(t, err)
	assert.Equal(t, "Sessions_FALL_2024.csv", r.Filename)
	assert.Equal(t, "text/csv", r.ContentType)

	r, err = Render(FormatXLSX, "", rows)
	require.NoError(t, err)
	assert.Equal(t, "sessions.xlsx", r.Filename)

	_, err = Render("docx", "x", rows)
	assert.Error(t, err)
}

func TestHTML(t *testing.T) {
	out, err := HTML("Session report", rows)
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Session report</h1>")
	assert.Contains(t, out, "<td>Sam Stone</td>")
	assert.Contains(t, out, "<th>Semester</th>")
}
