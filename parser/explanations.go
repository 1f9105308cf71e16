package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-evds/models"
)

// Explanations tab selectors.
const (
	ExplanationsSelector = "#tab_6_1_"
	explanationSection   = "#tab_6_1_ .col-md-12"
	explanationCode      = ".col-md-4 h6 p"
	explanationDesc      = ".col-md-4:nth-child(2) h6"
	explanationInfo      = "div[id^='infoD_']"
)

// ParseExplanations reads the series descriptions from the explanations tab.
// Sections without a code are skipped.
func ParseExplanations(html string) ([]models.Explanation, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, models.ErrParse{Reason: "unreadable explanations html", Err: err}
	}
	return ExplanationsFromSelection(doc.Selection), nil
}

// ExplanationsFromSelection is ParseExplanations over a parsed document.
func ExplanationsFromSelection(sel *goquery.Selection) []models.Explanation {
	var out []models.Explanation
	sel.Find(explanationSection).Each(func(_ int, section *goquery.Selection) {
		code := NormalizeCell(section.Find(explanationCode).First().Text())
		if code == "" {
			return
		}

		desc := section.Find(explanationDesc).First()
		text := NormalizeCell(desc.ChildrenFiltered("p").First().Text())
		parts := strings.Split(text, "-")
		e := models.Explanation{
			Code:        models.NormalizeCode(code),
			Description: strings.TrimSpace(parts[0]),
			Info:        NormalizeCell(desc.Find(explanationInfo).First().Text()),
		}
		if len(parts) > 1 {
			e.CalculationType = strings.TrimSpace(parts[len(parts)-1])
		}
		out = append(out, e)
	})
	return out
}
