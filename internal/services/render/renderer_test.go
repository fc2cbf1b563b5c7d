package render

import (
	"math"
	"strings"
	"testing"

	"FinStream/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result() models.ValuationResult {
	return models.ValuationResult{
		Periods: []models.CashFlowPeriod{
			{Label: "1", ProjectedCashFlow: 105, PresentValue: 95.4545},
			{Label: "2", ProjectedCashFlow: 110.25, PresentValue: 91.1157},
			{Label: models.TerminalLabel, ProjectedCashFlow: 1405.6875, PresentValue: 1161.7252},
		},
		TotalPresentValue: 1234.5678,
	}
}

func TestRenderer_Text(t *testing.T) {
	r, err := NewRenderer(2)
	require.NoError(t, err)

	f, err := r.Render("message", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "message", f.MountID)
	assert.Equal(t, `<div id="message">Hello</div>`, f.Markup)
}

func TestRenderer_TextIsVerbatim(t *testing.T) {
	r, err := NewRenderer(2)
	require.NoError(t, err)

	f, err := r.Render("message", "<em>Hi</em>")
	require.NoError(t, err)
	assert.Equal(t, `<div id="message"><em>Hi</em></div>`, f.Markup)
}

func TestRenderer_Table(t *testing.T) {
	r, err := NewRenderer(2)
	require.NoError(t, err)

	f, err := r.Render("cash-flow-table", result())
	require.NoError(t, err)

	assert.Equal(t, "cash-flow-table", f.MountID)
	assert.True(t, strings.HasPrefix(f.Markup, `<div id="cash-flow-table">`))
	assert.Equal(t, 3, strings.Count(f.Markup, "<tr class="))
	assert.Contains(t, f.Markup, `<tr class="period"><td>1</td><td>105.00</td><td>95.45</td></tr>`)
	assert.Contains(t, f.Markup, `<tr class="terminal"><td>Terminal</td><td>1405.69</td><td>1161.73</td></tr>`)
	assert.Contains(t, f.Markup, `<td class="total">1234.57</td>`)
}

func TestRenderer_TablePointer(t *testing.T) {
	r, err := NewRenderer(0)
	require.NoError(t, err)

	res := result()
	f, err := r.Render("cash-flow-table", &res)
	require.NoError(t, err)
	assert.Contains(t, f.Markup, `<td class="total">1235</td>`)

	_, err = r.Render("cash-flow-table", (*models.ValuationResult)(nil))
	assert.Error(t, err)
}

func TestRenderer_Headline(t *testing.T) {
	r, err := NewRenderer(0)
	require.NoError(t, err)

	f, err := r.RenderHeadline("total-value", result())
	require.NoError(t, err)
	assert.Equal(t, "total-value", f.MountID)
	assert.Contains(t, f.Markup, `<strong>1235</strong>`)
}

func TestRenderer_NonFiniteTotal(t *testing.T) {
	r, err := NewRenderer(2)
	require.NoError(t, err)

	res := result()
	res.TotalPresentValue = math.Inf(1)
	f, err := r.RenderHeadline("total-value", res)
	require.NoError(t, err)
	assert.Contains(t, f.Markup, "+Inf")
}

func TestRenderer_RoundingDoesNotTouchResult(t *testing.T) {
	r, err := NewRenderer(0)
	require.NoError(t, err)

	res := result()
	_, err = r.Render("cash-flow-table", res)
	require.NoError(t, err)
	assert.Equal(t, 1234.5678, res.TotalPresentValue)
}

func TestRenderer_Errors(t *testing.T) {
	_, err := NewRenderer(-1)
	assert.Error(t, err)

	r, err := NewRenderer(2)
	require.NoError(t, err)

	_, err = r.Render("x", 42)
	assert.Error(t, err)

	_, err = r.Render("", "text")
	assert.Error(t, err)
}

func TestPages(t *testing.T) {
	p, err := NewPages("")
	require.NoError(t, err)

	assert.Contains(t, p.Index(), `<div id="message"></div>`)
	assert.Contains(t, p.Index(), DefaultDatastarURL)
	assert.Contains(t, p.Calculator(), `<div id="total-value"`)
	assert.Contains(t, p.Calculator(), `<div id="cash-flow-table"></div>`)
	assert.Contains(t, string(p.Stylesheet()), ".cash-flows")
}
