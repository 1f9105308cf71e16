package portal

import (
	"context"

	"github.com/aluiziolira/go-scrape-evds/browser"
	"github.com/aluiziolira/go-scrape-evds/models"
	"github.com/aluiziolira/go-scrape-evds/parser"
)

// Categories lists the top-level categories of the series market.
func (p *Portal) Categories(ctx context.Context) ([]string, error) {
	if err := p.page.WaitReady(ctx, categoryLink); err != nil {
		return nil, models.ErrNavigation{Step: "list categories", Err: err}
	}
	links, err := p.page.Query(ctx, categoryLink)
	if err != nil {
		return nil, models.ErrNavigation{Step: "list categories", Err: err}
	}
	return nonEmpty(texts(links)), nil
}

// Subcategories expands category and lists its data groups.
func (p *Portal) Subcategories(ctx context.Context, category string) ([]string, error) {
	code, err := p.expandCategory(ctx, category)
	if err != nil {
		return nil, models.ErrNavigation{Step: "open category " + category, Err: err}
	}
	links, err := p.page.Query(ctx, panelSubcategories(code))
	if err != nil {
		return nil, models.ErrNavigation{Step: "list subcategories", Err: err}
	}
	return nonEmpty(texts(links)), nil
}

// Series opens the data group and lists its series with their tree path.
func (p *Portal) Series(ctx context.Context, category, subcategory string) ([]models.Variable, error) {
	code, err := p.expandCategory(ctx, category)
	if err != nil {
		return nil, models.ErrNavigation{Step: "open category " + category, Err: err}
	}
	if err := p.openSubcategory(ctx, code, subcategory); err != nil {
		return nil, models.ErrNavigation{Step: "open subcategory " + subcategory, Err: err}
	}

	rows, err := p.page.Query(ctx, itemRow)
	if err != nil {
		return nil, models.ErrNavigation{Step: "list series", Err: err}
	}
	var out []models.Variable
	for _, row := range rows {
		seriesCode, name := parser.SeriesFromRow(row.HTML)
		if seriesCode == "" && name == "" {
			continue
		}
		out = append(out, models.Variable{
			Code:        seriesCode,
			Category:    category,
			Subcategory: subcategory,
			Item:        name,
		})
	}
	return out, nil
}

// CalculationTypes ticks v and lists the calculation types offered for it.
// The dropdown is closed again before returning.
func (p *Portal) CalculationTypes(ctx context.Context, v models.Variable) ([]string, error) {
	if err := p.tickSeries(ctx, v); err != nil {
		return nil, models.ErrNavigation{Step: "tick " + v.String(), Err: err}
	}
	options, err := p.openCalculations(ctx)
	if err != nil {
		return nil, models.ErrNavigation{Step: "list calculation types", Err: err}
	}
	if err := p.page.Click(ctx, browser.First(pageBody)); err != nil {
		return nil, models.ErrNavigation{Step: "close calculation types", Err: err}
	}
	return nonEmpty(options), nil
}

// AddToCart adds v to the report cart so the portal shows the date range
// available for the cart.
func (p *Portal) AddToCart(ctx context.Context, v models.Variable) error {
	if err := p.addVariable(ctx, v); err != nil {
		return models.ErrNavigation{Step: "add " + v.Key() + " to cart", Err: err}
	}
	return nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = parser.NormalizeCell(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
