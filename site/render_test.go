package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hardcover-dash/dashboard"
)

func testViewModel() *dashboard.ViewModel {
	pct := 50
	stars := 4
	duration := 12
	return &dashboard.ViewModel{
		RelRoot:    "../",
		BuildStamp: "2024-02-10 18:30:00 UTC",
		Me: dashboard.Profile{
			Username:   "alice",
			Name:       "Alice",
			ProfileURL: "https://hardcover.app/@alice",
		},
		Currently: []dashboard.Item{
			{
				Title:    "Middlemarch",
				Author:   "George Eliot",
				Progress: 150,
				Pct:      &pct,
				BookURL:  "https://hardcover.app/books/middlemarch",
			},
		},
		Timeline: []dashboard.TimelineYear{
			{
				Year:  2024,
				Count: 1,
				Months: []dashboard.TimelineMonth{
					{
						Month:     1,
						MonthName: "Januar",
						Count:     1,
						Books: []dashboard.Item{
							{
								Title:        "Done & Dusted",
								Author:       "Unknown",
								FinishedAt:   "2024-01-15",
								DurationDays: &duration,
								RatingStars:  &stars,
								IsFinished:   true,
								Missing:      []string{"pages"},
							},
						},
					},
				},
			},
		},
		FinishedCount:   1,
		BooksPerYear:    []dashboard.YearCount{{Year: 2024, Count: 1}},
		BooksPerYearMax: 1,
		Stats: dashboard.Stats{
			GoalTotal:     24,
			GoalProgress:  6,
			StreakCurrent: 2,
			StreakBest:    5,
		},
	}
}

// The shipped template must render against a full view model.
func TestRenderPageShippedTemplate(t *testing.T) {
	renderer, err := NewRenderer("../templates")
	require.NoError(t, err)

	out := t.TempDir()
	path, err := renderer.RenderPage(out, testViewModel())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "reading", "index.html"), path)

	html, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(html), "Middlemarch")
	assert.Contains(t, string(html), "George Eliot")
	assert.Contains(t, string(html), "Done &amp; Dusted")
	assert.Contains(t, string(html), "Januar")
	assert.Contains(t, string(html), "2024-02-10 18:30:00 UTC")
	assert.Contains(t, string(html), `href="../static/styles.css"`)
}

func TestNewRendererMissingTemplate(t *testing.T) {
	_, err := NewRenderer(t.TempDir())
	assert.Error(t, err)
}

func TestTemplateFuncs(t *testing.T) {
	funcs := templateFuncs()

	barWidth := funcs["barWidth"].(func(count, max int) int)
	assert.Equal(t, 50, barWidth(1, 2))
	assert.Equal(t, 100, barWidth(3, 3))
	assert.Equal(t, 0, barWidth(1, 0), "guarded against a zero maximum")

	stars := funcs["stars"].(func(n *int) string)
	assert.Equal(t, "", stars(nil))
	four := 4
	assert.Equal(t, "★★★★☆", stars(&four))

	days := funcs["days"].(func(f *float64) string)
	assert.Equal(t, "", days(nil))
	avg := 12.25
	assert.Equal(t, "12.2", days(&avg))

	percent := funcs["percent"].(func(f *float64) string)
	assert.Equal(t, "", percent(nil))
	pct := 25.4
	assert.Equal(t, "25", percent(&pct))
}
