package cli

import (
	"context"
	"fmt"

	"github.com/adubois/patrontheque/internal/models"
)

func (a *App) list(ctx context.Context, args []string) error {
	var (
		list []models.Patron
		err  error
	)

	switch {
	case len(args) == 0:
		list, err = a.patrons.List(ctx)
	case len(args) == 2 && args[0] == "category":
		list, err = a.patrons.ListByCategory(ctx, models.Category(args[1]))
	case len(args) == 2 && args[0] == "level":
		list, err = a.patrons.ListByLevel(ctx, models.Level(args[1]))
	default:
		fmt.Println("Usage: list [category <name> | level <name>]")
		return nil
	}
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	if len(list) == 0 {
		fmt.Println("No patrons found.")
		return nil
	}

	for _, p := range list {
		fmt.Printf("%-15s %-30s %-16s %s\n", p.ID, p.Name,
			models.CategoryLabels[p.Category], levelBadge(p.Level))
	}
	fmt.Printf("%d patron(s)\n", len(list))
	return nil
}

var ansiColors = map[string]string{
	"green":  "\x1b[32m",
	"yellow": "\x1b[33m",
	"red":    "\x1b[31m",
}

// levelBadge renders the level label tinted with its badge color. Unknown
// levels come out plain.
func levelBadge(l models.Level) string {
	code, ok := ansiColors[models.LevelColors[l]]
	if !ok {
		return models.LevelLabels[l]
	}
	return code + models.LevelLabels[l] + "\x1b[0m"
}
