package portal

import "fmt"

// Series market page.
const (
	languageButton   = "#languageBut"
	categoryLink     = "h4.panel-title.serie-market-menu-category a.accordion-toggle"
	subcategoryLink  = "a.serieMarketDataGroupItemLink"
	itemRow          = "tr.fcsable"
	itemCheckbox     = "input.checkboxes"
	checkedItem      = "input.checkboxes:checked"
	searchInput      = "#serieMarketSearchText"
	searchButton     = "#serieMarketSearchButton"
	calcDropdown     = "button.multiselect.dropdown-toggle"
	calcActive       = "ul.multiselect-container li.active input[type='checkbox']"
	calcOption       = "ul.multiselect-container li"
	calcCheckbox     = "input[type='checkbox']"
	addToCartButton  = "a[href*='addToCart']"
	frequencySelect  = "#frekansSelect"
	beginDateInput   = "#beginDate"
	endDateInput     = "#endDate"
	beginDateLabel   = "#beginDateLabel"
	endDateLabel     = "#endDateLabel"
	reportButton     = ".serieMarketReportButton"
	pageBody         = "body"
	documentRoot     = "html"
	expandedClass    = "in"
	categoryCodeAttr = "categorycode"
)

func categoryPanel(code string) string {
	return fmt.Sprintf("#collapse_%s", code)
}

func panelSubcategories(code string) string {
	return fmt.Sprintf("#collapse_%s %s", code, subcategoryLink)
}
