package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/adubois/patrontheque/internal/media"
	"github.com/adubois/patrontheque/internal/models"
)

var categories = []models.Category{
	models.CategoryAmigurumi,
	models.CategoryAccessoire,
	models.CategoryVetement,
	models.CategoryDeco,
	models.CategoryAutre,
}

var levels = []models.Level{
	models.LevelDebutant,
	models.LevelIntermediaire,
	models.LevelAvance,
}

func (a *App) add(ctx context.Context) error {
	p := &models.Patron{}
	var err error

	if p.Name, err = GetSimpleText(a.reader, "-Enter name"); err != nil {
		return err
	}
	if p.Name == "" {
		fmt.Println("Name is required.")
		return nil
	}

	cat, err := GetSimpleText(a.reader, fmt.Sprintf("-Enter category %v", categories))
	if err != nil {
		return err
	}
	p.Category = models.Category(cat)
	if _, ok := models.CategoryLabels[p.Category]; !ok {
		p.Category = models.CategoryAutre
	}

	lvl, err := GetSimpleText(a.reader, fmt.Sprintf("-Enter level %v", levels))
	if err != nil {
		return err
	}
	p.Level = models.Level(lvl)
	if _, ok := models.LevelLabels[p.Level]; !ok {
		p.Level = models.LevelDebutant
	}

	if p.HookSize, err = GetSimpleText(a.reader, "-Enter hook size in mm (optional)"); err != nil {
		return err
	}
	if p.YarnAmount, err = GetInt(a.reader, "-Enter yarn amount in grams (optional)"); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if p.Materials, err = GetList(a.reader, "-Enter materials, comma separated (optional)"); err != nil {
		return err
	}
	if p.Description, err = GetSimpleText(a.reader, "-Enter description (optional)"); err != nil {
		return err
	}

	if p.Image, err = a.readImage(); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if p.PDF, err = a.readAttachment("-Enter PDF file path (optional)"); err != nil {
		fmt.Println("Error:", err)
		return err
	}

	id, err := a.patrons.Save(ctx, p)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("Saved patron", id)
	return nil
}

// readImage loads an image file and compresses it to the configured bounds
// before it gets embedded in the record.
func (a *App) readImage() ([]byte, error) {
	data, err := a.readAttachment("-Enter image file path (optional)")
	if err != nil || data == nil {
		return nil, err
	}

	if ct := http.DetectContentType(data); ct == "image/jpeg" || ct == "image/png" || ct == "image/gif" {
		return media.Compress(data, a.config.ImageMaxWidth, a.config.ImageMaxHeight, a.config.ImageQuality)
	}
	return data, nil
}

func (a *App) readAttachment(prompt string) ([]byte, error) {
	path, err := GetSimpleText(a.reader, prompt)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	return os.ReadFile(path)
}
