package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-evds/models"
)

// DevExtreme data grid selectors used by the report page.
const (
	GridSelector       = ".dx-datagrid"
	GridContentSel     = ".dx-datagrid-content"
	GridHeaderSelector = "td[role='columnheader'] .dx-datagrid-text-content"
	GridRowSelector    = "tr.dx-row.dx-data-row"
	GridNoDataSelector = ".dx-datagrid-nodata"
	GridScrollSelector = "div.dx-scrollable-container"
)

// Grid is the visible part of the report grid. The first column holds the
// period; the others hold one series each.
type Grid struct {
	Headers []string
	Rows    [][]string
	NoData  bool
}

// ParseGrid reads a grid from rendered HTML.
func ParseGrid(html string) (Grid, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Grid{}, models.ErrParse{Reason: "unreadable grid html", Err: err}
	}
	return GridFromSelection(doc.Selection)
}

// GridFromSelection reads a grid from an already parsed document or element.
func GridFromSelection(sel *goquery.Selection) (Grid, error) {
	grid := sel.Find(GridSelector).AddSelection(sel.Filter(GridSelector)).First()
	if grid.Length() == 0 {
		return Grid{}, models.ErrParse{Reason: "data grid not found"}
	}

	var g Grid
	noData := grid.Find(GridNoDataSelector)
	if noData.Length() > 0 && NormalizeCell(noData.Text()) != "" {
		g.NoData = true
	}

	grid.Find(GridHeaderSelector).Each(func(_ int, s *goquery.Selection) {
		g.Headers = append(g.Headers, NormalizeCell(s.Text()))
	})

	grid.Find(GridRowSelector).Each(func(_ int, s *goquery.Selection) {
		cells := s.ChildrenFiltered("td")
		if cells.Length() == 0 {
			return
		}
		row := make([]string, 0, cells.Length())
		cells.Each(func(_ int, c *goquery.Selection) {
			row = append(row, NormalizeCell(c.Text()))
		})
		g.Rows = append(g.Rows, row)
	})

	if len(g.Rows) > 0 {
		g.NoData = false
	}
	return g, nil
}

// ColumnIndex returns the grid column of code, skipping the period column.
// An exact header match wins over a suffixed one.
func (g Grid) ColumnIndex(code string) (int, error) {
	key := models.NormalizeCode(code)
	for i := 1; i < len(g.Headers); i++ {
		if models.NormalizeCode(g.Headers[i]) == key {
			return i, nil
		}
	}
	for i := 1; i < len(g.Headers); i++ {
		if MatchHeader(g.Headers[i], key) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("no column for %s in %v", key, g.Headers)
}
