package validator

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const htmlTemplate = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Validation Report</title></head>
<body><table border="1">
<tr><th>entity</th><th>data</th><th>name</th><th>valid</th><th>used_by</th><th>activity</th><th>start_time</th><th>end_time</th></tr>
###TABLE_CONTENT###
</table></body></html>
`

// WriteHTMLReport renders entries as an HTML table, mirroring report.py's
// create_html_report (same ###TABLE_CONTENT### placeholder substitution
// convention, same column order).
func WriteHTMLReport(entries []ReportEntry, filename string) error {
	var rows strings.Builder
	for _, e := range entries {
		rows.WriteString("<tr>")
		rows.WriteString(td(e.Entity))
		rows.WriteString(td(e.Data))
		rows.WriteString(td(e.Name))
		rows.WriteString(td(strconv.FormatBool(e.Valid)))
		rows.WriteString(td(strings.Join(e.UsedBy, "<br>")))
		rows.WriteString(td(e.Activity))
		rows.WriteString(td(e.StartTime))
		rows.WriteString(td(e.EndTime))
		rows.WriteString("</tr>\n")
	}
	html := strings.Replace(htmlTemplate, "###TABLE_CONTENT###", rows.String(), 1)
	return os.WriteFile(filename, []byte(html), 0o644)
}

func td(s string) string { return fmt.Sprintf("<td>%s</td>", s) }

// WriteCSVReport renders entries as CSV, one row per (entry, used_by) pair —
// mirroring report.py's create_csv_report, which explodes the used_by
// column via pandas.DataFrame.explode before writing.
func WriteCSVReport(entries []ReportEntry, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"entity", "data", "name", "valid", "used_by", "activity", "start_time", "end_time"}); err != nil {
		return err
	}
	for _, e := range entries {
		usedBy := e.UsedBy
		if len(usedBy) == 0 {
			usedBy = []string{""}
		}
		for _, ub := range usedBy {
			row := []string{e.Entity, e.Data, e.Name, strconv.FormatBool(e.Valid), ub, e.Activity, e.StartTime, e.EndTime}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}
