// Package portal drives the EVDS series-market page: it opens the page,
// fills the report form for a scrape job, creates the report and reads the
// resulting data grid.
package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aluiziolira/go-scrape-evds/browser"
	"github.com/aluiziolira/go-scrape-evds/config"
	"github.com/aluiziolira/go-scrape-evds/models"
	"github.com/aluiziolira/go-scrape-evds/parser"
)

// stallLimit is how many scroll steps in a row may reveal no new grid rows
// before the grid is considered fully read.
const stallLimit = 3

// Portal is the driver adapter over a caller-owned page. It keeps the job
// passed to FillForm so ReadTable knows which columns and range to expect.
type Portal struct {
	page   browser.Page
	cfg    *config.Config
	job    config.Scrape
	filled bool
}

// New wraps page. cfg supplies the portal URL and grid scrolling limits.
func New(page browser.Page, cfg *config.Config) *Portal {
	return &Portal{page: page, cfg: cfg}
}

// Navigate opens the series market and switches the interface to lang.
func (p *Portal) Navigate(ctx context.Context, lang models.Language) error {
	p.filled = false

	if err := p.page.Navigate(ctx, p.cfg.BaseURL); err != nil {
		return models.ErrNavigation{Step: "open series market", Err: err}
	}
	if err := p.page.WaitReady(ctx, categoryLink); err != nil {
		return models.ErrNavigation{Step: "load category menu", Err: err}
	}

	buttons, err := p.page.Query(ctx, languageButton)
	if err != nil {
		return models.ErrNavigation{Step: "switch language", Err: err}
	}
	if len(buttons) == 0 {
		return models.ErrNavigation{Step: "switch language", Err: models.ErrElementNotFound{Selector: languageButton}}
	}
	if strings.EqualFold(strings.TrimSpace(buttons[0].Text), lang.SwitchLabel()) {
		slog.Debug("switching portal language", slog.String("language", string(lang)))
		if err := p.page.Click(ctx, browser.First(languageButton)); err != nil {
			return models.ErrNavigation{Step: "switch language", Err: err}
		}
		if err := p.page.WaitReady(ctx, categoryLink); err != nil {
			return models.ErrNavigation{Step: "reload category menu", Err: err}
		}
	}
	return nil
}

// FillForm adds every variable of job to the report cart, then sets the
// frequency and the date range.
func (p *Portal) FillForm(ctx context.Context, job config.Scrape) error {
	p.filled = false

	for _, v := range job.Variables {
		if err := p.addVariable(ctx, v); err != nil {
			return models.ErrNavigation{Step: "select " + v.Key(), Err: err}
		}
	}

	if err := p.page.SelectValue(ctx, frequencySelect, job.Frequency.PortalValue()); err != nil {
		return models.ErrNavigation{Step: "select frequency", Err: err}
	}
	if err := p.page.SetValue(ctx, beginDateInput, job.Frequency.PortalDate(job.Start)); err != nil {
		return models.ErrNavigation{Step: "set begin date", Err: err}
	}
	if err := p.page.SetValue(ctx, endDateInput, job.Frequency.PortalDate(job.End)); err != nil {
		return models.ErrNavigation{Step: "set end date", Err: err}
	}

	p.job = job
	p.filled = true
	return nil
}

// Submit creates the report and waits for the data grid. The grid may take
// as long as a page load to appear.
func (p *Portal) Submit(ctx context.Context) error {
	if err := p.page.Click(ctx, browser.First(reportButton)); err != nil {
		return models.ErrNavigation{Step: "create report", Err: err}
	}
	if err := p.page.WaitLoaded(ctx, parser.GridSelector); err != nil {
		return models.ErrNavigation{Step: "wait for report", Err: err}
	}
	return nil
}

// ReadTable reads the report grid, scrolling until rows at both ends of the
// range have been seen or scrolling stops revealing rows. A no-data report
// fails with models.ErrParse.
func (p *Portal) ReadTable(ctx context.Context) (*models.ScrapeResult, error) {
	if !p.filled {
		return nil, models.ErrNavigation{Step: "read table", Err: errors.New("report form has not been filled")}
	}

	asm, err := parser.NewAssembler(p.job, p.cfg.DedupeMaxSize)
	if err != nil {
		return nil, err
	}

	stalled := 0
	for scrolls := 0; ; scrolls++ {
		html, err := p.page.OuterHTML(ctx, parser.GridSelector)
		if err != nil {
			return nil, models.ErrNavigation{Step: "read grid", Err: err}
		}
		grid, err := parser.ParseGrid(html)
		if err != nil {
			return nil, err
		}
		added, err := asm.Add(grid)
		if err != nil {
			return nil, err
		}

		if added == 0 {
			stalled++
		} else {
			stalled = 0
		}
		if asm.Complete() || stalled >= stallLimit || (scrolls == 0 && len(grid.Rows) == 0) {
			break
		}
		if scrolls >= p.cfg.MaxScrolls {
			return nil, models.ErrParse{Reason: fmt.Sprintf("grid still growing after %d scrolls", scrolls)}
		}
		if err := p.page.Scroll(ctx, parser.GridScrollSelector, p.cfg.ScrollStep); err != nil {
			return nil, models.ErrNavigation{Step: "scroll grid", Err: err}
		}
	}

	result, err := asm.Result()
	if err != nil {
		return nil, err
	}
	slog.Debug("grid read", slog.Int("rows", result.Len()), slog.Int("columns", len(result.Columns)))

	if p.job.IncludeExplanations {
		html, err := p.page.OuterHTML(ctx, parser.ExplanationsSelector)
		if err != nil {
			return nil, models.ErrNavigation{Step: "read explanations", Err: err}
		}
		if result.Explanations, err = parser.ParseExplanations(html); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// AvailableRange returns the date range the portal offers for the series in
// the cart, as shown next to the date inputs.
func (p *Portal) AvailableRange(ctx context.Context) (string, string, error) {
	begin, err := p.text(ctx, beginDateLabel)
	if err != nil {
		return "", "", models.ErrNavigation{Step: "read available range", Err: err}
	}
	end, err := p.text(ctx, endDateLabel)
	if err != nil {
		return "", "", models.ErrNavigation{Step: "read available range", Err: err}
	}
	return strings.Trim(begin, "() "), strings.Trim(end, "() "), nil
}

// SaveSnapshot writes the rendered page to path so it can be parsed offline.
func (p *Portal) SaveSnapshot(ctx context.Context, path string) error {
	html, err := p.page.OuterHTML(ctx, documentRoot)
	if err != nil {
		return models.ErrNavigation{Step: "capture page", Err: err}
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}

func (p *Portal) addVariable(ctx context.Context, v models.Variable) error {
	slog.Debug("selecting series", slog.String("code", v.Key()))
	if v.HasPath() {
		return p.selectFromTree(ctx, v)
	}
	return p.selectBySearch(ctx, v)
}

func (p *Portal) selectFromTree(ctx context.Context, v models.Variable) error {
	code, err := p.expandCategory(ctx, v.Category)
	if err != nil {
		return err
	}
	if err := p.openSubcategory(ctx, code, v.Subcategory); err != nil {
		return err
	}
	if err := p.tickSeries(ctx, v); err != nil {
		return err
	}
	if err := p.chooseCalculation(ctx, v.CalculationType); err != nil {
		return err
	}
	return p.page.Click(ctx, browser.First(addToCartButton))
}

func (p *Portal) selectBySearch(ctx context.Context, v models.Variable) error {
	if err := p.page.SetValue(ctx, searchInput, v.Key()); err != nil {
		return err
	}
	if err := p.page.Click(ctx, browser.First(searchButton)); err != nil {
		return err
	}
	if err := p.page.WaitReady(ctx, itemRow); err != nil {
		return err
	}
	if err := p.tickSeries(ctx, v); err != nil {
		return err
	}
	if err := p.chooseCalculation(ctx, v.CalculationType); err != nil {
		return err
	}
	return p.page.Click(ctx, browser.First(addToCartButton))
}

// expandCategory opens the accordion panel of the named category unless it
// is already open, and returns the category code.
func (p *Portal) expandCategory(ctx context.Context, name string) (string, error) {
	links, err := p.page.Query(ctx, categoryLink)
	if err != nil {
		return "", err
	}
	idx := matchText(texts(links), name)
	if idx < 0 {
		return "", models.ErrElementNotFound{Selector: fmt.Sprintf("%s %q", categoryLink, name)}
	}

	code := links[idx].Attr(categoryCodeAttr)
	panel, err := p.page.Query(ctx, categoryPanel(code))
	if err != nil {
		return "", err
	}
	if len(panel) > 0 && hasClass(panel[0].Attr("class"), expandedClass) {
		return code, nil
	}

	if err := p.page.Click(ctx, browser.Target{Selector: categoryLink, Index: idx}); err != nil {
		return "", err
	}
	return code, p.page.WaitReady(ctx, categoryPanel(code))
}

func (p *Portal) openSubcategory(ctx context.Context, categoryCode, name string) error {
	selector := panelSubcategories(categoryCode)
	links, err := p.page.Query(ctx, selector)
	if err != nil {
		return err
	}
	idx := matchText(texts(links), name)
	if idx < 0 {
		return models.ErrElementNotFound{Selector: fmt.Sprintf("%s %q", selector, name)}
	}
	if err := p.page.Click(ctx, browser.Target{Selector: selector, Index: idx}); err != nil {
		return err
	}
	return p.page.WaitReady(ctx, itemRow)
}

// tickSeries clears earlier ticks and ticks the row of v, matched by item
// name when given and by code otherwise.
func (p *Portal) tickSeries(ctx context.Context, v models.Variable) error {
	checked, err := p.page.Query(ctx, checkedItem)
	if err != nil {
		return err
	}
	for range checked {
		if err := p.page.Click(ctx, browser.First(checkedItem)); err != nil {
			return err
		}
	}

	rows, err := p.page.Query(ctx, itemRow)
	if err != nil {
		return err
	}
	idx := -1
	if v.Item != "" {
		names := make([]string, len(rows))
		for i, row := range rows {
			_, names[i] = parser.SeriesFromRow(row.HTML)
		}
		idx = matchText(names, v.Item)
	} else {
		for i, row := range rows {
			if code, _ := parser.SeriesFromRow(row.HTML); code == v.Key() {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return models.ErrElementNotFound{Selector: fmt.Sprintf("%s %q", itemRow, v.String())}
	}
	return p.page.Click(ctx, browser.Target{Selector: itemRow, Index: idx, Child: itemCheckbox})
}

// chooseCalculation picks the calculation type in the multiselect. An empty
// name keeps the portal default.
func (p *Portal) chooseCalculation(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	options, err := p.openCalculations(ctx)
	if err != nil {
		return err
	}

	active, err := p.page.Query(ctx, calcActive)
	if err != nil {
		return err
	}
	for range active {
		if err := p.page.Click(ctx, browser.First(calcActive)); err != nil {
			return err
		}
	}

	idx := matchText(options, name)
	if idx < 0 {
		return models.ErrElementNotFound{Selector: fmt.Sprintf("%s %q", calcOption, name)}
	}
	if err := p.page.Click(ctx, browser.Target{Selector: calcOption, Index: idx, Child: calcCheckbox}); err != nil {
		return err
	}
	return p.page.Click(ctx, browser.First(pageBody))
}

func (p *Portal) openCalculations(ctx context.Context) ([]string, error) {
	if err := p.page.Click(ctx, browser.First(calcDropdown)); err != nil {
		return nil, err
	}
	items, err := p.page.Query(ctx, calcOption)
	if err != nil {
		return nil, err
	}
	return texts(items), nil
}

func (p *Portal) text(ctx context.Context, selector string) (string, error) {
	elems, err := p.page.Query(ctx, selector)
	if err != nil {
		return "", err
	}
	if len(elems) == 0 {
		return "", models.ErrElementNotFound{Selector: selector}
	}
	return elems[0].Text, nil
}

func texts(elems []browser.Element) []string {
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.Text
	}
	return out
}
