package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/davrell/amazfit-go/amazfit"
)

// Styles shared by the table renderers.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	boldStyle = lipgloss.NewStyle().
			Bold(true)

	errorLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))
)

// column describes one fixed-width table column. Numeric columns are
// right-justified, matching the original terminal layout.
type column struct {
	name  string
	width int
	right bool
}

// table is a minimal fixed-width renderer. The first column is always the
// date and gets the date style.
type table struct {
	title   string
	columns []column
	rows    [][]string
}

func newTable(title string, columns ...column) *table {
	return &table{title: title, columns: columns}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(t.title))
	b.WriteByte('\n')

	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = pad(col.name, col.width, col.right)
	}
	b.WriteString(headerStyle.Render(strings.Join(headers, "  ")))
	b.WriteByte('\n')

	total := 0
	for _, col := range t.columns {
		total += col.width + 2
	}
	b.WriteString(dimStyle.Render(strings.Repeat("─", total-2)))
	b.WriteByte('\n')

	for _, row := range t.rows {
		cells := make([]string, len(t.columns))
		for i, col := range t.columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cell = pad(cell, col.width, col.right)
			if i == 0 {
				cell = dateStyle.Render(cell)
			}
			cells[i] = cell
		}
		b.WriteString(strings.Join(cells, "  "))
		b.WriteByte('\n')
	}

	return strings.TrimRight(b.String(), "\n")
}

// pad measures in runes so cells with multi-byte characters such as "°" keep
// the columns aligned.
func pad(s string, width int, right bool) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		return string([]rune(s)[:width])
	}
	fill := strings.Repeat(" ", width-n)
	if right {
		return fill + s
	}
	return s + fill
}

// formatDuration renders minutes as "7h 55m", or "42m" under an hour.
func formatDuration(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// formatSkinTemp renders the signed baseline deviation, "-" when absent.
func formatSkinTemp(delta *float64) string {
	if delta == nil {
		return "-"
	}
	if *delta == 0 {
		return "0°"
	}
	return fmt.Sprintf("%+.1f°", *delta)
}

// formatHeartRates renders resting and max heart rate as "52/142".
func formatHeartRates(resting, max int) string {
	switch {
	case resting > 0 && max > 0:
		return fmt.Sprintf("%d/%d", resting, max)
	case resting > 0:
		return fmt.Sprintf("%d", resting)
	case max > 0:
		return fmt.Sprintf("-/%d", max)
	default:
		return "-"
	}
}

// comma groups a non-negative integer with thousands separators.
func comma(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func intOrDash(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}

func countOrDash(n int) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}

func renderDaily(days []amazfit.DailySummary) string {
	t := newTable("Health Summary",
		column{name: "Date", width: 10},
		column{name: "Steps", width: 7, right: true},
		column{name: "Distance", width: 8, right: true},
		column{name: "Sleep", width: 7, right: true},
		column{name: "Deep", width: 6, right: true},
		column{name: "Light", width: 6, right: true},
		column{name: "REM", width: 6, right: true},
		column{name: "HR", width: 7, right: true},
	)

	totalSteps, totalDistance, totalSleep := 0, 0, 0
	for _, day := range days {
		t.addRow(
			day.Date,
			comma(day.Steps),
			comma(day.DistanceMeters)+"m",
			formatDuration(day.SleepMinutes),
			formatDuration(day.DeepSleepMinutes),
			formatDuration(day.LightSleepMinutes),
			formatDuration(day.RemSleepMinutes),
			formatHeartRates(day.RestingHeartRate, day.MaxHeartRate),
		)
		totalSteps += day.Steps
		totalDistance += day.DistanceMeters
		totalSleep += day.SleepMinutes
	}

	out := t.render() + "\n\n"
	out += boldStyle.Render("Total steps:") + " " + comma(totalSteps) + "\n"
	out += boldStyle.Render("Total distance:") + " " + fmt.Sprintf("%.1f km", float64(totalDistance)/1000) + "\n"
	out += boldStyle.Render("Average sleep:") + " " + formatDuration(totalSleep/len(days))
	return out
}

// renderDailyDetailed is the per-day breakdown behind the --detailed flag,
// including sleep phases and the band's activity segmentation.
func renderDailyDetailed(days []amazfit.DailySummary) string {
	var b strings.Builder

	for i, day := range days {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(titleStyle.Render("═══ " + day.Date + " ═══"))
		b.WriteByte('\n')

		if day.Steps > 0 {
			b.WriteString("\n" + boldStyle.Render("Steps:") + " " + comma(day.Steps) + "\n")
			fmt.Fprintf(&b, "  Distance: %sm\n", comma(day.DistanceMeters))
			fmt.Fprintf(&b, "  Calories: %s\n", comma(day.Calories))
		}

		if day.SleepMinutes > 0 {
			score := ""
			if day.SleepScore > 0 {
				score = fmt.Sprintf(" (score: %d)", day.SleepScore)
			}
			b.WriteString("\n" + boldStyle.Render("Sleep:") + " " + formatDuration(day.SleepMinutes) + score + "\n")
			if !day.SleepStart.IsZero() && !day.SleepEnd.IsZero() {
				fmt.Fprintf(&b, "  %s - %s\n", day.SleepStart.Format("15:04"), day.SleepEnd.Format("15:04"))
			}
			fmt.Fprintf(&b, "  Deep: %s\n", formatDuration(day.DeepSleepMinutes))
			fmt.Fprintf(&b, "  Light: %s\n", formatDuration(day.LightSleepMinutes))
			fmt.Fprintf(&b, "  REM: %s\n", formatDuration(day.RemSleepMinutes))
			if day.RestingHeartRate > 0 {
				fmt.Fprintf(&b, "  Resting HR: %d bpm\n", day.RestingHeartRate)
			}
			if len(day.SleepPhases) > 0 {
				b.WriteString("  " + dimStyle.Render("Phases:") + "\n")
				for _, phase := range day.SleepPhases {
					fmt.Fprintf(&b, "    %s-%s: %s (%dm)\n",
						phase.Start.Format("15:04"), phase.End.Format("15:04"),
						phase.Type, phase.DurationMinutes)
				}
			}
		}

		if day.MaxHeartRate > 0 {
			b.WriteString("\n" + boldStyle.Render("Heart Rate:") + "\n")
			if day.RestingHeartRate > 0 {
				fmt.Fprintf(&b, "  Resting: %d bpm\n", day.RestingHeartRate)
			}
			fmt.Fprintf(&b, "  Max: %d bpm\n", day.MaxHeartRate)
		}

		if stages := wakingActivities(day.Activities); len(stages) > 0 {
			b.WriteString("\n" + boldStyle.Render("Activities:") + "\n")
			for _, stage := range stages {
				fmt.Fprintf(&b, "  %s-%s: %s (%d steps)\n",
					stage.Start.Format("15:04"), stage.End.Format("15:04"),
					stage.Name, stage.Steps)
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// wakingActivities filters out the sleep stages the band mixes into the
// activity segmentation.
func wakingActivities(stages []amazfit.ActivityStage) []amazfit.ActivityStage {
	var out []amazfit.ActivityStage
	for _, stage := range stages {
		switch stage.Name {
		case "light_sleep", "deep_sleep", "rem_sleep":
			continue
		}
		out = append(out, stage)
	}
	return out
}

func renderSummary(days []amazfit.DaySummary) string {
	t := newTable("Health Summary (Aggregated)",
		column{name: "Date", width: 10},
		column{name: "Steps", width: 7, right: true},
		column{name: "Sleep", width: 7, right: true},
		column{name: "HR", width: 7, right: true},
		column{name: "Stress", width: 6, right: true},
		column{name: "SpO2", width: 5, right: true},
		column{name: "PAI", width: 5, right: true},
	)

	for _, day := range days {
		pai := "-"
		if day.TotalPai != nil {
			pai = fmt.Sprintf("%.1f", *day.TotalPai)
		}
		t.addRow(
			day.Date,
			comma(day.Steps),
			formatDuration(day.SleepMinutes),
			formatHeartRates(day.RestingHeartRate, day.MaxHeartRate),
			intOrDash(day.AvgStress),
			intOrDash(day.AvgSpo2),
			pai,
		)
	}

	return t.render()
}

func renderStress(samples []amazfit.StressSample) string {
	t := newTable("Stress Data",
		column{name: "Date", width: 10},
		column{name: "Avg", width: 4, right: true},
		column{name: "Min", width: 4, right: true},
		column{name: "Max", width: 4, right: true},
		column{name: "Relaxed", width: 7, right: true},
		column{name: "Normal", width: 6, right: true},
		column{name: "Medium", width: 6, right: true},
		column{name: "High", width: 5, right: true},
	)

	for _, s := range samples {
		t.addRow(
			s.Date,
			fmt.Sprintf("%d", s.Avg),
			fmt.Sprintf("%d", s.Min),
			fmt.Sprintf("%d", s.Max),
			fmt.Sprintf("%d%%", s.RelaxedPercent),
			fmt.Sprintf("%d%%", s.NormalPercent),
			fmt.Sprintf("%d%%", s.MediumPercent),
			fmt.Sprintf("%d%%", s.HighPercent),
		)
	}

	return t.render()
}

func renderSpo2(samples []amazfit.Spo2Sample) string {
	t := newTable("Blood Oxygen (SpO2) Data",
		column{name: "Date", width: 10},
		column{name: "ODI", width: 5, right: true},
		column{name: "Events", width: 6, right: true},
		column{name: "Score", width: 5, right: true},
		column{name: "Readings", width: 8, right: true},
		column{name: "OSA", width: 4, right: true},
	)

	for _, s := range samples {
		odi := "-"
		if s.Odi > 0 {
			odi = fmt.Sprintf("%.2f", s.Odi)
		}
		score := "-"
		if s.Score > 0 {
			score = fmt.Sprintf("%d", s.Score)
		}
		t.addRow(
			s.Date,
			odi,
			fmt.Sprintf("%d", s.OdiEvents),
			score,
			countOrDash(len(s.Readings)),
			countOrDash(len(s.OsaEvents)),
		)
	}

	out := t.render() + "\n\n"
	out += dimStyle.Render("ODI = Oxygen Desaturation Index (events per hour during sleep)") + "\n"
	out += dimStyle.Render("OSA = sleep apnea events (from device detection)")
	return out
}

func renderPai(samples []amazfit.PaiSample) string {
	t := newTable("PAI (Personal Activity Intelligence)",
		column{name: "Date", width: 10},
		column{name: "Total", width: 5, right: true},
		column{name: "Daily", width: 5, right: true},
		column{name: "Rest HR", width: 7, right: true},
		column{name: "Low", width: 5, right: true},
		column{name: "Med", width: 5, right: true},
		column{name: "High", width: 5, right: true},
	)

	for _, s := range samples {
		rhr := "-"
		if s.RestingHeartRate > 0 {
			rhr = fmt.Sprintf("%d", s.RestingHeartRate)
		}
		t.addRow(
			s.Date,
			fmt.Sprintf("%.1f", s.TotalPai),
			fmt.Sprintf("+%.1f", s.DailyPai),
			rhr,
			fmt.Sprintf("%dm", s.LowZoneMinutes),
			fmt.Sprintf("%dm", s.MediumZoneMinutes),
			fmt.Sprintf("%dm", s.HighZoneMinutes),
		)
	}

	out := t.render() + "\n\n"
	out += dimStyle.Render("PAI = Personal Activity Intelligence (aim for 100+ weekly)")
	return out
}

func renderReadiness(samples []amazfit.ReadinessSample) string {
	t := newTable("Readiness & Recovery Data",
		column{name: "Date", width: 10},
		column{name: "Ready", width: 5, right: true},
		column{name: "HRV", width: 4, right: true},
		column{name: "Sleep HRV", width: 9, right: true},
		column{name: "RHR", width: 4, right: true},
		column{name: "Skin Temp", width: 9, right: true},
		column{name: "Mental", width: 6, right: true},
		column{name: "Physical", width: 8, right: true},
	)

	for _, s := range samples {
		sleepHrv := "-"
		if s.SleepHrv != nil {
			sleepHrv = fmt.Sprintf("%dms", *s.SleepHrv)
		}
		t.addRow(
			s.Date,
			intOrDash(s.Score),
			intOrDash(s.HrvScore),
			sleepHrv,
			intOrDash(s.SleepRhr),
			formatSkinTemp(s.SkinTemp),
			intOrDash(s.MentalScore),
			intOrDash(s.PhysicalScore),
		)
	}

	out := t.render() + "\n\n"
	out += dimStyle.Render("Ready = Readiness score, HRV = Heart Rate Variability score") + "\n"
	out += dimStyle.Render("Skin Temp = deviation from personal baseline")
	return out
}

func renderWorkouts(workouts []amazfit.WorkoutRecord) string {
	t := newTable("Workout History",
		column{name: "Date", width: 16},
		column{name: "Type", width: 18},
		column{name: "Duration", width: 8, right: true},
		column{name: "Calories", width: 8, right: true},
		column{name: "Avg HR", width: 6, right: true},
		column{name: "Max HR", width: 6, right: true},
		column{name: "TE", width: 4, right: true},
	)

	for _, w := range workouts {
		te := "-"
		if w.TrainingEffect > 0 {
			te = fmt.Sprintf("%.1f", w.TrainingEffect)
		}
		t.addRow(
			w.StartTime.Format("2006-01-02 15:04"),
			w.Name,
			formatDuration(w.DurationSeconds/60),
			fmt.Sprintf("%.0f", w.Calories),
			countOrDash(w.AvgHeartRate),
			countOrDash(w.MaxHeartRate),
			te,
		)
	}

	out := t.render() + "\n\n"
	out += dimStyle.Render(fmt.Sprintf("Total workouts: %d", len(workouts)))
	return out
}
