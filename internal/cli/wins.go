package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/smallwins/internal/constants"
	"github.com/julianstephens/smallwins/internal/models"
	"github.com/julianstephens/smallwins/internal/wins"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d4916f"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8075")).Width(18)
	valueStyle   = lipgloss.NewStyle().Bold(true)
)

type AddCmd struct {
	Text []string `arg:"" optional:"" help:"The win. Prompts when omitted."`
}

func (c *AddCmd) Run(ctx *Context) error {
	text := strings.Join(c.Text, " ")
	if strings.TrimSpace(text) == "" {
		prompted, err := promptWin()
		if err != nil {
			return err
		}
		text = prompted
	}

	hadWinToday := ctx.Wins.HasWinToday(ctx)
	record, err := ctx.Wins.SaveWin(ctx, text)
	if err != nil {
		return err
	}

	ctx.Printf("✓ Win saved for %s\n", record.Date.Display())
	streak := ctx.Wins.GetStreak(ctx)
	if !hadWinToday {
		ctx.Printf("🔥 %d day streak\n", streak)
	}
	if streak >= constants.StreakMilestone && !hadWinToday {
		ctx.Printf("🎉 %d days in a row. Keep it going!\n", streak)
	}
	return nil
}

func promptWin() (string, error) {
	var text string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("What's one small win from today?").
				CharLimit(constants.MaxChars).
				Value(&text).
				Validate(func(s string) error {
					_, err := wins.ValidateText(s)
					return err
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return text, nil
}

type ListCmd struct {
	Reverse bool `help:"Show newest first."`
}

func (c *ListCmd) Run(ctx *Context) error {
	all := ctx.Wins.GetAllWins(ctx)
	if len(all) == 0 {
		ctx.Println("No wins yet. Add one with 'smallwins add'.")
		return nil
	}

	if c.Reverse {
		for i := len(all) - 1; i >= 0; i-- {
			printWin(ctx, all[i])
		}
	} else {
		for _, w := range all {
			printWin(ctx, w)
		}
	}
	ctx.Printf("\n%d wins\n", len(all))
	return nil
}

func printWin(ctx *Context, w models.WinRecord) {
	ctx.Printf("%-13s %s\n", w.Date.Display(), w.Text)
}

type RandomCmd struct{}

func (c *RandomCmd) Run(ctx *Context) error {
	w, ok := ctx.Wins.RandomWin(ctx)
	if !ok {
		ctx.Println("No wins yet.")
		return nil
	}
	ctx.Println("✨ Random memory")
	printWin(ctx, w)
	return nil
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	streak := ctx.Wins.GetStreak(ctx)
	if ctx.Wins.HasWinToday(ctx) {
		ctx.Printf("✓ You've logged a win today. Streak: %d\n", streak)
		return nil
	}
	if streak > 0 {
		ctx.Printf("No win yet today. Add one to keep your %d day streak.\n", streak)
		return nil
	}
	ctx.Println("No win yet today.")
	return nil
}

type StatsCmd struct {
	JSON bool `help:"Print machine-readable output."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	stats := ctx.Wins.Stats(ctx)
	if c.JSON {
		return writeJSON(ctx, stats)
	}

	rows := []struct {
		label string
		value string
	}{
		{"Total wins", fmt.Sprint(stats.Total)},
		{"This week", fmt.Sprint(stats.ThisWeek)},
		{"This month", fmt.Sprint(stats.ThisMonth)},
		{"Current streak", fmt.Sprintf("%d days", stats.Streak)},
		{"Longest streak", fmt.Sprintf("%d days", stats.LongestStreak)},
		{"Weekly average", fmt.Sprintf("%.1f", wins.RoundOneDecimal(stats.WeeklyAverage))},
	}

	ctx.Println(headingStyle.Render("Your Progress"))
	for _, r := range rows {
		ctx.Println(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r.label), valueStyle.Render(r.value)))
	}
	if stats.Milestone() {
		ctx.Printf("\n🎉 %d day streak. That's a habit.\n", stats.Streak)
	}
	return nil
}
