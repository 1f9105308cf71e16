package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aluiziolira/go-scrape-evds/models"
)

const explanationsPage = `<html><body>
<div id="tab_6_1_">
  <div class="col-md-12">
    <div class="col-md-4"><h6>Code<p>TP.DK.USD.A</p></h6></div>
    <div class="col-md-4"><h6><p>(USD) US Dollar (Buying) - <i>Level</i></p>
      <div id="infoD_1">Source: CBRT</div></h6></div>
  </div>
  <div class="col-md-12">
    <div class="col-md-4"><h6>Code<p>TP_DK_EUR_A</p></h6></div>
    <div class="col-md-4"><h6><p>(EUR) Euro (Buying)</p><div id="infoD_2"></div></h6></div>
  </div>
  <div class="col-md-12"><div class="col-md-4"><h6><p></p></h6></div></div>
</div>
</body></html>`

func TestParseExplanations(t *testing.T) {
	got, err := ParseExplanations(explanationsPage)
	if err != nil {
		t.Fatalf("ParseExplanations returned error: %v", err)
	}

	want := []models.Explanation{
		{Code: "TP.DK.USD.A", Description: "(USD) US Dollar (Buying)", CalculationType: "Level", Info: "Source: CBRT"},
		{Code: "TP.DK.EUR.A", Description: "(EUR) Euro (Buying)"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected explanations (-want +got):\n%s", diff)
	}
}
