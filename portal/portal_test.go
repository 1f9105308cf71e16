package portal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aluiziolira/go-scrape-evds/browser"
	"github.com/aluiziolira/go-scrape-evds/config"
	"github.com/aluiziolira/go-scrape-evds/models"
	"github.com/aluiziolira/go-scrape-evds/parser"
)

var (
	usd = models.Variable{
		Code:            "TP.DK.USD.A",
		Category:        "Exchange Rates",
		Subcategory:     "Exchange Rates (Daily)",
		Item:            "(USD) US Dollar (Buying)",
		CalculationType: "Percentage change",
	}
	eur = models.Variable{Code: "TP.DK.EUR.A"}
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.BaseURL = "http://evds.test/index.php?/evds/serieMarket"
	cfg.StepDelay = 0
	cfg.MaxScrolls = 20
	return cfg
}

func monthlyJob(t *testing.T, explanations bool, vars ...models.Variable) config.Scrape {
	t.Helper()
	job, err := config.NewScrape(config.Scrape{
		Variables:           vars,
		Start:               time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:                 time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC),
		Frequency:           models.Monthly,
		Language:            models.English,
		OutputFormat:        models.Mapping,
		IncludeExplanations: explanations,
	})
	require.NoError(t, err)
	return job
}

func TestNavigateSwitchesLanguage(t *testing.T) {
	tests := []struct {
		lang       models.Language
		wantToggle bool
	}{
		{lang: models.English, wantToggle: true},
		{lang: models.Turkish, wantToggle: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			page := newFakePage(t)
			p := New(page, testConfig())

			require.NoError(t, p.Navigate(context.Background(), tt.lang))
			require.Equal(t, []string{testConfig().BaseURL}, page.visited)
			require.Equal(t, tt.wantToggle, page.clicked(browser.First(languageButton)))
		})
	}
}

func TestNavigateMissingMenu(t *testing.T) {
	page := newFakePage(t)
	page.missing[categoryLink] = true

	err := New(page, testConfig()).Navigate(context.Background(), models.English)

	var navErr models.ErrNavigation
	require.ErrorAs(t, err, &navErr)
	require.Equal(t, "load category menu", navErr.Step)
	var notFound models.ErrElementNotFound
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, categoryLink, notFound.Selector)
}

func TestFillFormFromTree(t *testing.T) {
	page := newFakePage(t)
	p := New(page, testConfig())

	require.NoError(t, p.FillForm(context.Background(), monthlyJob(t, false, usd)))

	want := []browser.Target{
		{Selector: categoryLink, Index: 0},
		{Selector: panelSubcategories("1"), Index: 0},
		{Selector: itemRow, Index: 0, Child: itemCheckbox},
		browser.First(calcDropdown),
		browser.First(calcActive),
		{Selector: calcOption, Index: 1, Child: calcCheckbox},
		browser.First(pageBody),
		browser.First(addToCartButton),
	}
	require.Equal(t, want, page.clicks)
	require.Equal(t, "MONTH", page.selected[frequencySelect])
	require.Equal(t, "01-2020", page.values[beginDateInput])
	require.Equal(t, "03-2020", page.values[endDateInput])
}

func TestFillFormExpandedCategoryNotToggled(t *testing.T) {
	page := newFakePage(t)
	p := New(page, testConfig())

	v := models.Variable{Code: "TP.DK.EUR.A", Category: "Interest Rates", Subcategory: "Deposit Rates"}
	require.NoError(t, p.FillForm(context.Background(), monthlyJob(t, false, v)))

	require.False(t, page.clicked(browser.Target{Selector: categoryLink, Index: 1}))
	require.True(t, page.clicked(browser.Target{Selector: panelSubcategories("2"), Index: 0}))
	require.True(t, page.clicked(browser.Target{Selector: itemRow, Index: 1, Child: itemCheckbox}))
}

func TestFillFormSearchByCode(t *testing.T) {
	page := newFakePage(t)
	p := New(page, testConfig())

	require.NoError(t, p.FillForm(context.Background(), monthlyJob(t, false, eur)))

	require.Equal(t, "TP.DK.EUR.A", page.values[searchInput])
	require.True(t, page.clicked(browser.Target{Selector: itemRow, Index: 1, Child: itemCheckbox}))
	require.False(t, page.clicked(browser.First(calcDropdown)))
	require.True(t, page.clicked(browser.First(addToCartButton)))
}

func TestFillFormErrors(t *testing.T) {
	tests := []struct {
		name     string
		variable models.Variable
		freq     models.Frequency
		wantStep string
	}{
		{
			name:     "unknown series",
			variable: models.Variable{Code: "TP.DK.GBP.A", Category: "Exchange Rates", Subcategory: "Exchange Rates (Daily)"},
			freq:     models.Monthly,
			wantStep: "select TP.DK.GBP.A",
		},
		{
			name:     "unknown category",
			variable: models.Variable{Code: "TP.DK.USD.A", Category: "Balance of Payments", Subcategory: "Exports"},
			freq:     models.Monthly,
			wantStep: "select TP.DK.USD.A",
		},
		{
			name:     "frequency not offered",
			variable: eur,
			freq:     models.Annual,
			wantStep: "select frequency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := monthlyJob(t, false, tt.variable)
			job.Frequency = tt.freq

			err := New(newFakePage(t), testConfig()).FillForm(context.Background(), job)

			var navErr models.ErrNavigation
			require.ErrorAs(t, err, &navErr)
			require.Equal(t, tt.wantStep, navErr.Step)
			var notFound models.ErrElementNotFound
			require.ErrorAs(t, err, &notFound)
		})
	}
}

func TestSubmit(t *testing.T) {
	page := newFakePage(t, gridState([]string{"Date", "TP_DK_USD_A"}, []string{"2020-1", "5.9"}))
	require.NoError(t, New(page, testConfig()).Submit(context.Background()))
	require.True(t, page.clicked(browser.First(reportButton)))
	require.Equal(t, []string{parser.GridSelector}, page.loaded)
}

func TestSubmitReportNeverAppears(t *testing.T) {
	page := newFakePage(t)
	page.missing[parser.GridSelector] = true

	err := New(page, testConfig()).Submit(context.Background())
	var navErr models.ErrNavigation
	require.ErrorAs(t, err, &navErr)
	require.Equal(t, "wait for report", navErr.Step)
	require.Equal(t, []string{parser.GridSelector}, page.loaded)
}

func TestReadTableColumnsMatchVariables(t *testing.T) {
	headers := []string{"Date", "TP_DK_EUR_A-Level", "TP_DK_USD_A-Percentage change"}
	page := newFakePage(t,
		gridState(headers, []string{"2020-3", "6.61", "1.2"}, []string{"2020-2", "6.55", "0.8"}),
		gridState(headers, []string{"2020-2", "6.55", "0.8"}, []string{"2020-1", "6.64", "-0.3"}),
	)
	p := New(page, testConfig())
	job := monthlyJob(t, false, usd, eur)
	ctx := context.Background()

	require.NoError(t, p.FillForm(ctx, job))
	result, err := p.ReadTable(ctx)
	require.NoError(t, err)

	require.Equal(t, job.Codes(), result.Columns)
	require.Equal(t, 3, result.Len())
	require.Equal(t, 1, page.scrolls)
	require.NoError(t, parser.ValidateResult(result, job))
	require.Equal(t, []float64{-0.3, 6.64}, result.Rows[0].Values)
	require.Empty(t, result.Explanations)
}

func TestReadTableStopsWhenScrollingStalls(t *testing.T) {
	headers := []string{"Date", "TP_DK_EUR_A"}
	page := newFakePage(t, gridState(headers, []string{"2020-2", "6.55"}))
	p := New(page, testConfig())
	ctx := context.Background()

	require.NoError(t, p.FillForm(ctx, monthlyJob(t, false, eur)))
	result, err := p.ReadTable(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())
	require.Equal(t, stallLimit, page.scrolls)
}

func TestReadTableNoData(t *testing.T) {
	page := newFakePage(t, gridState([]string{"Date", "TP_DK_EUR_A"}))
	p := New(page, testConfig())
	ctx := context.Background()

	require.NoError(t, p.FillForm(ctx, monthlyJob(t, false, eur)))
	result, err := p.ReadTable(ctx)

	require.Nil(t, result)
	var parseErr models.ErrParse
	require.ErrorAs(t, err, &parseErr)
}

func TestReadTableMissingColumn(t *testing.T) {
	page := newFakePage(t, gridState([]string{"Date", "TP_DK_GBP_A"}, []string{"2020-1", "7.7"}))
	p := New(page, testConfig())
	ctx := context.Background()

	require.NoError(t, p.FillForm(ctx, monthlyJob(t, false, eur)))
	_, err := p.ReadTable(ctx)

	var parseErr models.ErrParse
	require.ErrorAs(t, err, &parseErr)
}

func TestReadTableScrollLimit(t *testing.T) {
	headers := []string{"Date", "TP_DK_EUR_A"}
	page := newFakePage(t,
		gridState(headers, []string{"2020-3", "6.61"}),
		gridState(headers, []string{"2020-2", "6.55"}),
		gridState(headers, []string{"2020-1", "6.64"}),
	)
	cfg := testConfig()
	cfg.MaxScrolls = 1
	p := New(page, cfg)
	ctx := context.Background()

	require.NoError(t, p.FillForm(ctx, monthlyJob(t, false, eur)))
	_, err := p.ReadTable(ctx)

	var parseErr models.ErrParse
	require.ErrorAs(t, err, &parseErr)
	require.Contains(t, err.Error(), "scrolls")
}

func TestReadTableBeforeFillForm(t *testing.T) {
	_, err := New(newFakePage(t), testConfig()).ReadTable(context.Background())

	var navErr models.ErrNavigation
	if !errors.As(err, &navErr) {
		t.Fatalf("expected ErrNavigation, got %v", err)
	}
}

func TestReadTableWithExplanations(t *testing.T) {
	headers := []string{"Date", "TP_DK_USD_A"}
	page := newFakePage(t, gridState(headers,
		[]string{"2020-3", "1.2"}, []string{"2020-2", "0.8"}, []string{"2020-1", "-0.3"}))
	p := New(page, testConfig())
	ctx := context.Background()

	require.NoError(t, p.FillForm(ctx, monthlyJob(t, true, usd)))
	result, err := p.ReadTable(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.Explanation{{
		Code:            "TP.DK.USD.A",
		Description:     "(USD) US Dollar (Buying)",
		CalculationType: "Level",
		Info:            "CBRT",
	}}, result.Explanations)
}

func TestAvailableRange(t *testing.T) {
	begin, end, err := New(newFakePage(t), testConfig()).AvailableRange(context.Background())
	require.NoError(t, err)
	require.Equal(t, "02-01-1950", begin)
	require.Equal(t, "17-10-2026", end)
}

func TestSaveSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "report.html")
	require.NoError(t, New(newFakePage(t), testConfig()).SaveSnapshot(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "frekansSelect"))
}
