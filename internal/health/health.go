// Package health inspects the trailing week of daily stores and builds an
// operator-facing status report.
package health

import (
	"fmt"
	"strings"
	"time"

	"github.com/Hesdy24/ai-news-digest/internal/store"
)

// DayStatus describes one calendar day's store file.
type DayStatus struct {
	Date    string
	Exists  bool
	Count   int
	LoadErr error
}

// Report aggregates the trailing window.
type Report struct {
	Generated  time.Time
	Days       []DayStatus
	Total      int
	ByAudience map[string]int
	Missing    int
	Broken     int
}

// Check scans the given day and the days-1 before it, oldest first.
func Check(st *store.Store, ref time.Time, days int) Report {
	r := Report{
		Generated:  time.Now(),
		ByAudience: map[string]int{},
	}

	for i := days - 1; i >= 0; i-- {
		day := ref.AddDate(0, 0, -i)
		ds := DayStatus{Date: day.Format(store.DateLayout)}

		articles, err := st.Load(day)
		switch {
		case err != nil:
			ds.Exists = true
			ds.LoadErr = err
			r.Broken++
		case articles == nil:
			r.Missing++
		default:
			ds.Exists = true
			ds.Count = len(articles)
			r.Total += len(articles)
			for _, a := range articles {
				r.ByAudience[a.Audience]++
			}
		}
		r.Days = append(r.Days, ds)
	}

	return r
}

// Healthy reports whether every day in the window has a readable store with
// at least one article.
func (r Report) Healthy() bool {
	return r.Missing == 0 && r.Broken == 0 && r.Total > 0
}

// String renders the plain-text report.
func (r Report) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Status report (%s)\n\n", r.Generated.Format("2006-01-02 15:04"))
	for _, d := range r.Days {
		switch {
		case d.LoadErr != nil:
			fmt.Fprintf(&b, "  %s  UNREADABLE (%v)\n", d.Date, d.LoadErr)
		case !d.Exists:
			fmt.Fprintf(&b, "  %s  missing\n", d.Date)
		default:
			fmt.Fprintf(&b, "  %s  %d articles\n", d.Date, d.Count)
		}
	}

	fmt.Fprintf(&b, "\nTotal articles: %d\n", r.Total)
	for audience, n := range r.ByAudience {
		fmt.Fprintf(&b, "  %s: %d\n", audience, n)
	}
	if r.Missing > 0 {
		fmt.Fprintf(&b, "Missing days: %d\n", r.Missing)
	}
	if r.Broken > 0 {
		fmt.Fprintf(&b, "Unreadable days: %d\n", r.Broken)
	}

	if r.Healthy() {
		b.WriteString("\nStatus: OK\n")
	} else {
		b.WriteString("\nStatus: ATTENTION NEEDED\n")
	}
	return b.String()
}
