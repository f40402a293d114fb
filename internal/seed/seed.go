// Package seed loads the bundled sample patrons on first run.
package seed

import (
	"context"
	"fmt"

	"github.com/adubois/patrontheque/internal/common"
	"github.com/adubois/patrontheque/internal/logging"
	"github.com/adubois/patrontheque/internal/models"
	"github.com/adubois/patrontheque/internal/repositories/metadata"
	"github.com/adubois/patrontheque/internal/services"
)

// SamplePatrons returns the bundled starter records. IDs are fixed so
// re-seeding an emptied store never duplicates them.
func SamplePatrons() []models.Patron {
	return []models.Patron{
		{
			ID:          "1",
			Name:        "Amigurumi Chat Mignon",
			Category:    models.CategoryAmigurumi,
			Level:       models.LevelDebutant,
			HookSize:    "3.5",
			YarnAmount:  150,
			Materials:   []string{"Fil acrylique", "Yeux de sécurité", "Fibrefill", "Aiguille à laine"},
			Description: "Un adorable petit chat amigurumi parfait pour les débutants. Facile à faire et très mignon!",
		},
		{
			ID:          "2",
			Name:        "Sac à Main Bohème",
			Category:    models.CategoryAccessoire,
			Level:       models.LevelIntermediaire,
			HookSize:    "4.5",
			YarnAmount:  400,
			Materials:   []string{"Fil coton", "Anses en cuir", "Doublure en tissu", "Bouton"},
			Description: "Un sac à main stylé et pratique avec une anse en cuir. Parfait pour l'été!",
		},
		{
			ID:          "3",
			Name:        "Couverture Granny Square",
			Category:    models.CategoryDeco,
			Level:       models.LevelIntermediaire,
			HookSize:    "4",
			YarnAmount:  2000,
			Materials:   []string{"Fil multicolore", "Épingle de blocage"},
			Description: "Une belle couverture aux carrés granny traditionnels. Idéale pour les canapés ou pique-niques.",
		},
		{
			ID:          "4",
			Name:        "Top Ajouré d'Été",
			Category:    models.CategoryVetement,
			Level:       models.LevelAvance,
			HookSize:    "3.5",
			YarnAmount:  600,
			Materials:   []string{"Fil de lin", "Boutons", "Élastique"},
			Description: "Un top ajouré et féminin parfait pour les chaudes journées d'été. Motifs de dentelle délicats.",
		},
		{
			ID:          "5",
			Name:        "Suspension Florale",
			Category:    models.CategoryDeco,
			Level:       models.LevelDebutant,
			HookSize:    "3.5",
			YarnAmount:  100,
			Materials:   []string{"Fil coton", "Perles de bois", "Crochet"},
			Description: "Une jolie suspension florale pour décorer votre intérieur. Facile et rapide à faire.",
		},
	}
}

// Load inserts the sample patrons unless the bootstrap flag is already set,
// and sets the flag afterwards.
func Load(ctx context.Context, svc services.PatronService, meta metadata.Repository, log logging.Logger) error {
	flag, err := meta.Get(ctx, common.KeySampleDataLoaded)
	if err != nil {
		return fmt.Errorf("failed to read bootstrap flag: %w", err)
	}
	if string(flag) == "true" {
		return nil
	}

	for _, p := range SamplePatrons() {
		if _, err := svc.Save(ctx, &p); err != nil {
			return fmt.Errorf("failed to seed patron %s: %w", p.ID, err)
		}
	}

	if err := meta.Set(ctx, common.KeySampleDataLoaded, []byte("true")); err != nil {
		return fmt.Errorf("failed to set bootstrap flag: %w", err)
	}

	log.Info(ctx, "sample data loaded", "count", len(SamplePatrons()))
	return nil
}
