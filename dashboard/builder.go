package dashboard

import (
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"hardcover-dash/hardcover"
)

const dateLayout = "2006-01-02"

// monthNames holds the German month labels shown on the page.
var monthNames = map[int]string{
	1:  "Januar",
	2:  "Februar",
	3:  "März",
	4:  "April",
	5:  "Mai",
	6:  "Juni",
	7:  "Juli",
	8:  "August",
	9:  "September",
	10: "Oktober",
	11: "November",
	12: "Dezember",
}

// Build assembles the full render model from the normalized profile.
// now anchors the build stamp and the current monthly streak.
func Build(me hardcover.Me, now time.Time) *ViewModel {
	currently := BuildCurrently(me)
	finished := BuildFinished(me.RecentlyRead)
	perYear, perYearMax := BooksPerYear(finished)
	avg, median := DurationStats(finished)
	current, best := MonthlyStreak(finished, now)

	stats := Stats{
		AvgDays:       avg,
		MedianDays:    median,
		StreakCurrent: current,
		StreakBest:    best,
	}
	if len(me.Goals) > 0 {
		g := me.Goals[0]
		stats.GoalTotal = roundInt(g.Goal)
		stats.GoalProgress = roundInt(g.Progress)
		if stats.GoalTotal > 0 {
			pct := float64(stats.GoalProgress) / float64(stats.GoalTotal) * 100
			stats.GoalPct = &pct
		}
	}

	name := me.Name
	if name == "" {
		name = me.Username
	}
	var profileURL string
	if me.Username != "" {
		profileURL = "https://hardcover.app/@" + me.Username
	}

	return &ViewModel{
		RelRoot:    "../",
		BuildStamp: now.UTC().Format("2006-01-02 15:04:05 MST"),
		Me: Profile{
			Username:   me.Username,
			Name:       name,
			Avatar:     imageURL(me.Image),
			ProfileURL: profileURL,
		},
		Currently:       currently,
		Timeline:        GroupTimeline(finished),
		FinishedCount:   len(finished),
		BooksPerYear:    perYear,
		BooksPerYearMax: perYearMax,
		Stats:           stats,
	}
}

// BuildCurrently flattens the in-progress tracking records. Progress
// percentage is only derived when the book has a known page count.
func BuildCurrently(me hardcover.Me) []Item {
	items := make([]Item, 0, len(me.CurrentlyReading))
	for _, ub := range me.CurrentlyReading {
		book := bookOf(ub)
		read := PickRead(ub.Reads)

		pages := pagesOf(book)
		progress := progressOf(read)

		var pct *int
		if pages != nil && *pages > 0 {
			v := roundInt(float64(progress) / float64(*pages) * 100)
			pct = &v
		}

		item := Item{
			Title:       book.Title,
			Author:      authorNames(book.Contributions),
			Cover:       imageURL(book.Image),
			Pages:       pages,
			Progress:    progress,
			Pct:         pct,
			Slug:        book.Slug,
			BookURL:     bookURL(book.Title, book.Slug),
			RatingStars: RatingToStars(ub.Rating),
			StartedAt:   dateString(read.StartedAt),
		}
		item.Missing = missingBadges(item)
		items = append(items, item)
	}
	return items
}

// BuildFinished flattens the finished tracking records. The finish date
// comes from the chosen read session, falling back to the record's
// last_read_date; a record with neither cannot be placed in the
// timeline and is dropped. Output is sorted newest-finished first, ties
// keeping input order.
func BuildFinished(records []hardcover.UserBook) []Item {
	finished := make([]Item, 0, len(records))
	for _, ub := range records {
		book := bookOf(ub)
		read := PickRead(ub.Reads)

		started, hasStart := parseDate(read.StartedAt)
		finishedAt, hasFinish := parseDate(read.FinishedAt)
		if !hasFinish {
			finishedAt, hasFinish = parseDate(ub.LastReadDate)
		}
		if !hasFinish {
			continue
		}

		item := Item{
			Title:        book.Title,
			Author:       authorNames(book.Contributions),
			Cover:        imageURL(book.Image),
			Pages:        pagesOf(book),
			Slug:         book.Slug,
			BookURL:      bookURL(book.Title, book.Slug),
			RatingStars:  RatingToStars(ub.Rating),
			FinishedAt:   finishedAt.Format(dateLayout),
			DurationDays: daysBetween(started, hasStart, finishedAt),
			Year:         finishedAt.Year(),
			Month:        int(finishedAt.Month()),
			MonthName:    monthNames[int(finishedAt.Month())],
			IsFinished:   true,
		}
		if hasStart {
			item.StartedAt = started.Format(dateLayout)
		}
		item.Missing = missingBadges(item)
		finished = append(finished, item)
	}

	sort.SliceStable(finished, func(i, j int) bool {
		return finished[i].FinishedAt > finished[j].FinishedAt
	})
	return finished
}

// GroupTimeline buckets finished items by (year, month): years
// descending, months within a year descending, books within a month
// newest-finished first. Every item lands in exactly one bucket.
func GroupTimeline(finished []Item) []TimelineYear {
	byYear := make(map[int]map[int][]Item)
	for _, item := range finished {
		if byYear[item.Year] == nil {
			byYear[item.Year] = make(map[int][]Item)
		}
		byYear[item.Year][item.Month] = append(byYear[item.Year][item.Month], item)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	timeline := make([]TimelineYear, 0, len(years))
	for _, year := range years {
		months := make([]int, 0, len(byYear[year]))
		for m := range byYear[year] {
			months = append(months, m)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(months)))

		entry := TimelineYear{Year: year}
		for _, month := range months {
			books := byYear[year][month]
			sort.SliceStable(books, func(i, j int) bool {
				return books[i].FinishedAt > books[j].FinishedAt
			})
			entry.Months = append(entry.Months, TimelineMonth{
				Month:     month,
				MonthName: monthNames[month],
				Count:     len(books),
				Books:     books,
			})
			entry.Count += len(books)
		}
		timeline = append(timeline, entry)
	}
	return timeline
}

// BooksPerYear counts finished books per calendar year, ascending, and
// returns the maximum count for chart scaling.
func BooksPerYear(finished []Item) ([]YearCount, int) {
	counts := make(map[int]int)
	for _, item := range finished {
		counts[item.Year]++
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]YearCount, 0, len(years))
	maxCount := 0
	for _, y := range years {
		out = append(out, YearCount{Year: y, Count: counts[y]})
		if counts[y] > maxCount {
			maxCount = counts[y]
		}
	}
	return out, maxCount
}

// DurationStats returns the mean and median reading duration over all
// finished books with a known duration, or nil/nil when there are none.
func DurationStats(finished []Item) (avg, median *float64) {
	var days []int
	for _, item := range finished {
		if item.DurationDays != nil {
			days = append(days, *item.DurationDays)
		}
	}
	if len(days) == 0 {
		return nil, nil
	}

	sum := 0
	for _, d := range days {
		sum += d
	}
	a := float64(sum) / float64(len(days))

	sort.Ints(days)
	n := len(days)
	var m float64
	if n%2 == 1 {
		m = float64(days[n/2])
	} else {
		m = float64(days[n/2-1]+days[n/2]) / 2
	}
	return &a, &m
}

// MonthlyStreak treats the distinct (year, month) pairs with at least
// one finished book as a sparse calendar. best is the longest run of
// consecutive months present; current counts backward from now's month
// and is zero when the present month has no finish.
func MonthlyStreak(finished []Item, now time.Time) (current, best int) {
	present := make(map[int]bool)
	for _, item := range finished {
		present[item.Year*12+item.Month-1] = true
	}
	if len(present) == 0 {
		return 0, 0
	}

	months := make([]int, 0, len(present))
	for m := range present {
		months = append(months, m)
	}
	sort.Ints(months)

	run := 1
	best = 1
	for i := 1; i < len(months); i++ {
		if months[i]-months[i-1] == 1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}

	cursor := now.Year()*12 + int(now.Month()) - 1
	for present[cursor] {
		current++
		cursor--
	}
	return current, best
}

// RatingToStars maps Hardcover's ambiguous rating scale onto 1-5 stars.
// The API has been observed returning both 1-5 and 0-10 values: at or
// below zero is unrated, above five is halved before rounding. The
// result is clamped into 1..5.
func RatingToStars(rating *float64) *int {
	if rating == nil {
		return nil
	}
	r := *rating
	if r <= 0 {
		return nil
	}
	if r > 5 {
		r /= 2
	}
	stars := roundInt(r)
	if stars < 1 {
		stars = 1
	}
	if stars > 5 {
		stars = 5
	}
	return &stars
}

// PickRead chooses the canonical read session for a book. Anchoring on
// the first session reports stale progress for re-reads, so the session
// with the highest progress wins; when every session reports zero or
// unknown progress the last one in API order is treated as most recent.
func PickRead(reads []hardcover.Read) hardcover.Read {
	if len(reads) == 0 {
		return hardcover.Read{}
	}

	best := reads[0]
	for _, r := range reads[1:] {
		if progressOf(r) > progressOf(best) {
			best = r
		}
	}
	if progressOf(best) > 0 {
		return best
	}
	return reads[len(reads)-1]
}

// parseDate tolerates both RFC3339 timestamps and bare YYYY-MM-DD
// dates, which the API mixes freely.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if len(s) >= len(dateLayout) {
		if t, err := time.Parse(dateLayout, s[:len(dateLayout)]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// daysBetween is the inclusive day count between two calendar dates.
// Inverted endpoints are clamped, so the result is always >= 1.
func daysBetween(start time.Time, hasStart bool, end time.Time) *int {
	if !hasStart {
		return nil
	}
	days := int(dayOf(end).Sub(dayOf(start)).Hours() / 24)
	if days < 0 {
		days = 0
	}
	days++
	return &days
}

// dayOf drops the time-of-day and zone so date arithmetic matches the
// calendar, not wall clocks.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateString(s string) string {
	if t, ok := parseDate(s); ok {
		return t.Format(dateLayout)
	}
	return ""
}

func missingBadges(item Item) []string {
	var missing []string
	if item.Pages == nil {
		missing = append(missing, "pages")
	}
	if item.RatingStars == nil {
		missing = append(missing, "rating")
	}
	if item.StartedAt == "" {
		missing = append(missing, "started_at")
	}
	if item.IsFinished && item.FinishedAt == "" {
		missing = append(missing, "finished_at")
	}
	return missing
}

func authorNames(contribs []hardcover.Contribution) string {
	var names []string
	for _, c := range contribs {
		if c.Author != nil && c.Author.Name != "" {
			names = append(names, c.Author.Name)
		}
	}
	if len(names) == 0 {
		return "Unknown"
	}
	return strings.Join(names, ", ")
}

func bookURL(title, slug string) string {
	if slug != "" {
		return "https://hardcover.app/books/" + slug
	}
	if title != "" {
		return "https://hardcover.app/search?q=" + url.QueryEscape(title)
	}
	return ""
}

func bookOf(ub hardcover.UserBook) *hardcover.Book {
	if ub.Book != nil {
		return ub.Book
	}
	return &hardcover.Book{}
}

func pagesOf(book *hardcover.Book) *int {
	if book.Pages == nil || *book.Pages <= 0 {
		return nil
	}
	pages := *book.Pages
	return &pages
}

func progressOf(r hardcover.Read) int {
	if r.Progress == nil {
		return 0
	}
	return roundInt(*r.Progress)
}

func imageURL(img *hardcover.Image) string {
	if img == nil {
		return ""
	}
	return img.URL
}

func roundInt(f float64) int {
	return int(math.Round(f))
}
