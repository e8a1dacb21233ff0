package tasks

import (
	"sort"
	"time"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

// Window is an inclusive range of whole days.
type Window struct {
	From models.Date
	To   models.Date
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d models.Date) bool {
	return !d.Before(w.From) && !d.After(w.To)
}

// Days returns the number of days covered by the window.
func (w Window) Days() int {
	return daysBetween(w.From, w.To) + 1
}

// daysBetween counts whole days from a to b. Both are UTC midnights, so the
// Unix difference divides exactly. Spans may exceed what a Duration holds.
func daysBetween(a, b models.Date) int {
	return int((b.Unix() - a.Unix()) / 86400)
}

// CurrentWeek returns Monday to Sunday of the week containing now, in UTC.
func CurrentWeek(now time.Time) Window {
	today := models.DateOf(now.UTC())
	offset := (int(today.Weekday()) + 6) % 7
	monday := today.AddDays(-offset)
	return Window{From: monday, To: monday.AddDays(6)}
}

// Expand returns the dates on which task occurs within w, in ascending order.
// It never mutates task. An end date before the start date yields nothing.
func Expand(task models.Task, w Window) []models.Date {
	start := task.StartDate
	last := w.To
	if task.EndDate != nil {
		if task.EndDate.Before(start) {
			return nil
		}
		if task.EndDate.Before(last) {
			last = *task.EndDate
		}
	}
	if last.Before(w.From) || last.Before(start) {
		return nil
	}

	var dates []models.Date
	switch task.Frequency {
	case models.FrequencyNone:
		if w.Contains(start) && !start.After(last) {
			dates = append(dates, start)
		}
	case models.FrequencyDaily:
		first := start
		if first.Before(w.From) {
			first = w.From
		}
		for d := first; !d.After(last); d = d.AddDays(1) {
			dates = append(dates, d)
		}
	case models.FrequencyWeekly:
		first := start
		if first.Before(w.From) {
			gap := daysBetween(start, w.From)
			first = start.AddDays((gap + 6) / 7 * 7)
		}
		for d := first; !d.After(last); d = d.AddDays(7) {
			if !d.Before(w.From) {
				dates = append(dates, d)
			}
		}
	case models.FrequencyMonthly:
		for i := 0; ; i++ {
			d := monthlyOccurrence(start, i)
			if d.After(last) {
				break
			}
			if !d.Before(w.From) {
				dates = append(dates, d)
			}
		}
	}
	return dates
}

// monthlyOccurrence returns the n-th monthly repetition of start. Days the
// target month lacks fall on its last day.
func monthlyOccurrence(start models.Date, n int) models.Date {
	firstOfMonth := time.Date(start.Year(), start.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfMonth.AddDate(0, 1, -1).Day()
	day := start.Day()
	if day > lastDay {
		day = lastDay
	}
	return models.NewDate(firstOfMonth.Year(), firstOfMonth.Month(), day)
}

// IsOccurrence reports whether task occurs on d.
func IsOccurrence(task models.Task, d models.Date) bool {
	return len(Expand(task, Window{From: d, To: d})) == 1
}

// Occurrences expands every task over w and pairs each occurrence with its
// completion by exact (task, date) match. The result is ordered by date, then
// priority (HIGH first), then title.
func Occurrences(tasks []models.Task, completions []models.TaskCompletion, w Window) []models.Occurrence {
	type key struct {
		taskID string
		date   string
	}
	done := make(map[key]models.TaskCompletion, len(completions))
	for _, c := range completions {
		done[key{c.TaskID, c.Date.String()}] = c
	}

	out := make([]models.Occurrence, 0)
	for _, t := range tasks {
		for _, d := range Expand(t, w) {
			occ := models.Occurrence{
				TaskID:      t.ID,
				Date:        d,
				Title:       t.Title,
				Description: t.Description,
				Category:    t.Category,
				Priority:    t.Priority,
				Frequency:   t.Frequency,
				LoftID:      t.LoftID,
			}
			if c, ok := done[key{t.ID, d.String()}]; ok {
				completedAt := c.CompletedAt
				occ.Completed = true
				occ.Notes = c.Notes
				occ.CompletedAt = &completedAt
			}
			out = append(out, occ)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.TaskID < b.TaskID
	})
	return out
}
