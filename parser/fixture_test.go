package parser

import (
	"fmt"
	"html"
	"strings"
)

// gridHTML renders a minimal DevExtreme grid the way the report page does.
func gridHTML(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="dx-datagrid dx-gridbase-container">`)
	b.WriteString(`<div class="dx-datagrid-headers"><table><tr class="dx-row dx-header-row">`)
	for _, h := range headers {
		fmt.Fprintf(&b, `<td role="columnheader"><div class="dx-datagrid-text-content">%s</div></td>`, html.EscapeString(h))
	}
	b.WriteString(`</tr></table></div>`)
	b.WriteString(`<div class="dx-datagrid-rowsview"><div class="dx-scrollable-container"><div class="dx-datagrid-content"><table>`)
	for _, r := range rows {
		b.WriteString(`<tr class="dx-row dx-data-row">`)
		for _, c := range r {
			fmt.Fprintf(&b, `<td>%s</td>`, html.EscapeString(c))
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</table></div></div></div>`)
	if len(rows) == 0 {
		b.WriteString(`<span class="dx-datagrid-nodata">No data</span>`)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}
