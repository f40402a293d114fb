package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/adubois/patrontheque/internal/models"
)

func (a *App) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: show <id>")
		return nil
	}

	p, err := a.patrons.Get(ctx, args[0])
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if p == nil {
		fmt.Println("No patron with id", args[0])
		return nil
	}

	fmt.Println("Name:       ", p.Name)
	fmt.Println("Category:   ", models.CategoryLabels[p.Category])
	fmt.Println("Level:      ", levelBadge(p.Level))
	if p.HookSize != "" {
		fmt.Println("Hook size:  ", p.HookSize, "mm")
	}
	if p.YarnAmount > 0 {
		fmt.Println("Yarn:       ", p.YarnAmount, "g")
	}
	if len(p.Materials) > 0 {
		fmt.Println("Materials:  ", strings.Join(p.Materials, ", "))
	}
	if p.Description != "" {
		fmt.Println("Description:", p.Description)
	}
	fmt.Println("Image:      ", attachmentInfo(p.Image))
	fmt.Println("PDF:        ", attachmentInfo(p.PDF))
	fmt.Println("Created:    ", p.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Println("Updated:    ", p.UpdatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func attachmentInfo(data []byte) string {
	if len(data) == 0 {
		return "none"
	}
	return fmt.Sprintf("%d bytes", len(data))
}

func (a *App) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: delete <id>")
		return nil
	}

	if err := a.patrons.Delete(ctx, args[0]); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("Deleted", args[0])
	return nil
}
