package portal

import (
	"context"
	"fmt"
	"html"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-evds/browser"
	"github.com/aluiziolira/go-scrape-evds/models"
	"github.com/aluiziolira/go-scrape-evds/parser"
)

const seriesMarketPage = `<html><body>
<a id="languageBut">EN</a>
<div class="panel-group">
  <h4 class="panel-title serie-market-menu-category"><a class="accordion-toggle" categorycode="1">Exchange Rates</a></h4>
  <div id="collapse_1" class="panel-collapse collapse">
    <a class="serieMarketDataGroupItemLink">Exchange Rates (Daily)</a>
    <a class="serieMarketDataGroupItemLink">Effective Exchange Rates</a>
  </div>
  <h4 class="panel-title serie-market-menu-category"><a class="accordion-toggle" categorycode="2">Interest Rates</a></h4>
  <div id="collapse_2" class="panel-collapse collapse in">
    <a class="serieMarketDataGroupItemLink">Deposit Rates</a>
    <a class="serieMarketDataGroupItemLink"> </a>
  </div>
</div>
<input id="serieMarketSearchText"><button id="serieMarketSearchButton">Search</button>
<table id="series">
  <tr class="fcsable"><td><input class="checkboxes" type="checkbox"></td><td class="ws_enabled">(USD) US Dollar (Buying)</td><td>TP.DK.USD.A</td></tr>
  <tr class="fcsable"><td><input class="checkboxes" type="checkbox"></td><td class="ws_enabled">(EUR) Euro (Buying)</td><td>TP.DK.EUR.A</td></tr>
</table>
<button class="multiselect dropdown-toggle">Level</button>
<ul class="multiselect-container">
  <li class="active"><label class="checkbox"><input type="checkbox"> Level</label></li>
  <li><label class="checkbox"><input type="checkbox"> Percentage change</label></li>
</ul>
<a href="javascript:addToCart();">Add to cart</a>
<select id="frekansSelect">
  <option value="Date">Daily</option>
  <option value="WORKDAY">Workday</option>
  <option value="MONTH">Monthly</option>
</select>
<input id="beginDate"><input id="endDate">
<span id="beginDateLabel">(02-01-1950)</span><span id="endDateLabel">(17-10-2026)</span>
<button class="serieMarketReportButton">Create report</button>
<div id="tab_6_1_">
  <div class="col-md-12">
    <div class="col-md-4"><h6>Code<p>TP.DK.USD.A</p></h6></div>
    <div class="col-md-4"><h6><p>(USD) US Dollar (Buying) - Level</p><div id="infoD_1">CBRT</div></h6></div>
  </div>
</div>
</body></html>`

// fakePage serves a static document. The report grid is a sequence of
// states; each Scroll moves to the next one.
type fakePage struct {
	doc      *goquery.Document
	grids    []string
	gridPos  int
	scrolls  int
	missing  map[string]bool
	visited  []string
	loaded   []string
	clicks   []browser.Target
	values   map[string]string
	selected map[string]string
}

func newFakePage(t *testing.T, grids ...string) *fakePage {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(seriesMarketPage))
	if err != nil {
		t.Fatalf("invalid fixture: %v", err)
	}
	return &fakePage{
		doc:      doc,
		grids:    grids,
		missing:  map[string]bool{},
		values:   map[string]string{},
		selected: map[string]string{},
	}
}

func (f *fakePage) find(selector string) *goquery.Selection {
	if f.missing[selector] {
		return f.doc.Find("#absent-element")
	}
	return f.doc.Find(selector)
}

func (f *fakePage) Navigate(_ context.Context, url string) error {
	f.visited = append(f.visited, url)
	return nil
}

func (f *fakePage) WaitReady(_ context.Context, selector string) error {
	if selector == parser.GridSelector && len(f.grids) > 0 {
		return nil
	}
	if f.find(selector).Length() == 0 {
		return models.ErrElementNotFound{Selector: selector}
	}
	return nil
}

// WaitLoaded behaves like WaitReady and records the selector.
func (f *fakePage) WaitLoaded(ctx context.Context, selector string) error {
	f.loaded = append(f.loaded, selector)
	return f.WaitReady(ctx, selector)
}

func (f *fakePage) Query(_ context.Context, selector string) ([]browser.Element, error) {
	var out []browser.Element
	f.find(selector).Each(func(_ int, s *goquery.Selection) {
		outer, _ := goquery.OuterHtml(s)
		attrs := map[string]string{}
		for _, a := range s.Get(0).Attr {
			attrs[a.Key] = a.Val
		}
		out = append(out, browser.Element{Text: parser.NormalizeCell(s.Text()), HTML: outer, Attrs: attrs})
	})
	return out, nil
}

func (f *fakePage) Click(_ context.Context, target browser.Target) error {
	matches := f.find(target.Selector)
	if matches.Length() <= target.Index {
		return models.ErrElementNotFound{Selector: target.String()}
	}
	if target.Child != "" && matches.Eq(target.Index).Find(target.Child).Length() == 0 {
		return models.ErrElementNotFound{Selector: target.String()}
	}
	f.clicks = append(f.clicks, target)
	return nil
}

func (f *fakePage) SetValue(_ context.Context, selector, value string) error {
	if f.find(selector).Length() == 0 {
		return models.ErrElementNotFound{Selector: selector}
	}
	f.values[selector] = value
	return nil
}

func (f *fakePage) SelectValue(_ context.Context, selector, value string) error {
	options := f.find(selector).Find("option").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("value")
		return v == value
	})
	if options.Length() == 0 {
		return models.ErrElementNotFound{Selector: fmt.Sprintf("%s option[value=%q]", selector, value)}
	}
	f.selected[selector] = value
	return nil
}

func (f *fakePage) OuterHTML(_ context.Context, selector string) (string, error) {
	if selector == parser.GridSelector && len(f.grids) > 0 {
		return f.grids[f.gridPos], nil
	}
	s := f.find(selector)
	if s.Length() == 0 {
		return "", models.ErrElementNotFound{Selector: selector}
	}
	return goquery.OuterHtml(s.First())
}

func (f *fakePage) Scroll(_ context.Context, selector string, _ int) error {
	if len(f.grids) == 0 {
		return models.ErrElementNotFound{Selector: selector}
	}
	f.scrolls++
	if f.gridPos < len(f.grids)-1 {
		f.gridPos++
	}
	return nil
}

func (f *fakePage) clicked(target browser.Target) bool {
	for _, c := range f.clicks {
		if c == target {
			return true
		}
	}
	return false
}

// gridState renders the visible part of a report grid.
func gridState(headers []string, rows ...[]string) string {
	var b strings.Builder
	b.WriteString(`<div class="dx-datagrid"><table><tr class="dx-row dx-header-row">`)
	for _, h := range headers {
		fmt.Fprintf(&b, `<td role="columnheader"><div class="dx-datagrid-text-content">%s</div></td>`, html.EscapeString(h))
	}
	b.WriteString(`</tr></table><div class="dx-scrollable-container"><table>`)
	for _, r := range rows {
		b.WriteString(`<tr class="dx-row dx-data-row">`)
		for _, c := range r {
			fmt.Fprintf(&b, `<td>%s</td>`, html.EscapeString(c))
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</table></div>`)
	if len(rows) == 0 {
		b.WriteString(`<span class="dx-datagrid-nodata">No data</span>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}
