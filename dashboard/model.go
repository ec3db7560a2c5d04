// Package dashboard turns raw Hardcover reading data into the
// render-ready view model for the static dashboard page.
package dashboard

// Item is one render-ready book row. Missing lists which expected
// fields are absent so the page can show a placeholder badge instead of
// silently omitting data.
type Item struct {
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	Cover        string   `json:"cover,omitempty"`
	Pages        *int     `json:"pages"`
	Progress     int      `json:"progress"`
	Pct          *int     `json:"pct"`
	Slug         string   `json:"slug,omitempty"`
	BookURL      string   `json:"book_url,omitempty"`
	RatingStars  *int     `json:"rating_stars"`
	StartedAt    string   `json:"started_at,omitempty"`
	FinishedAt   string   `json:"finished_at,omitempty"`
	DurationDays *int     `json:"duration_days"`
	Year         int      `json:"year,omitempty"`
	Month        int      `json:"month,omitempty"`
	MonthName    string   `json:"month_name,omitempty"`
	IsFinished   bool     `json:"is_finished"`
	Missing      []string `json:"missing"`
}

// TimelineMonth is one month's bucket of finished books.
type TimelineMonth struct {
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Count     int    `json:"count"`
	Books     []Item `json:"books"`
}

// TimelineYear is one year of the finished-books timeline, newest
// months first.
type TimelineYear struct {
	Year   int             `json:"year"`
	Count  int             `json:"count"`
	Months []TimelineMonth `json:"months"`
}

// YearCount is one bar of the books-per-year chart.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Profile is the dashboard owner's normalized profile.
type Profile struct {
	Username   string `json:"username"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// Stats is the aggregate block rendered at the top of the page.
type Stats struct {
	GoalTotal     int      `json:"goal_total"`
	GoalProgress  int      `json:"goal_progress"`
	GoalPct       *float64 `json:"goal_pct"`
	AvgDays       *float64 `json:"avg_days"`
	MedianDays    *float64 `json:"median_days"`
	StreakCurrent int      `json:"streak_monthly_current"`
	StreakBest    int      `json:"streak_monthly_best"`
}

// ViewModel is everything the page template consumes.
type ViewModel struct {
	// RelRoot is the relative prefix from the rendered page back to the
	// output root (the page lives at <out>/reading/index.html).
	RelRoot         string         `json:"rel_root"`
	BuildStamp      string         `json:"build_stamp"`
	Me              Profile        `json:"me"`
	Currently       []Item         `json:"currently"`
	Timeline        []TimelineYear `json:"timeline"`
	FinishedCount   int            `json:"finished_count"`
	BooksPerYear    []YearCount    `json:"books_per_year"`
	BooksPerYearMax int            `json:"books_per_year_max"`
	Stats           Stats          `json:"stats"`
}
