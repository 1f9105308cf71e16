package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-evds/models"
)

var seriesCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*(?:[._][A-Z0-9]+)+$`)

// SeriesFromRow reads the series name and code from one row of the series
// list. The code is the first cell (or checkbox value) that looks like a
// series code; it is empty when the row shows none.
func SeriesFromRow(rowHTML string) (code, name string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table><tbody>" + rowHTML + "</tbody></table>"))
	if err != nil {
		return "", ""
	}
	row := doc.Find("tr").First()
	name = NormalizeCell(row.Find("td.ws_enabled").First().Text())

	row.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if text := NormalizeCell(cell.Text()); IsSeriesCode(text) {
			code = models.NormalizeCode(text)
			return false
		}
		return true
	})
	if code == "" {
		if value, ok := row.Find("input.checkboxes").Attr("value"); ok && IsSeriesCode(value) {
			code = models.NormalizeCode(value)
		}
	}
	return code, name
}

// IsSeriesCode reports whether s has the shape of a series code.
func IsSeriesCode(s string) bool {
	return seriesCodePattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}
