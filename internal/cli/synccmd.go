package cli

import (
	"context"
	"fmt"

	"github.com/adubois/patrontheque/internal/common"
	"github.com/adubois/patrontheque/internal/dbx"
	"github.com/adubois/patrontheque/internal/repositories/patrons"
	"github.com/adubois/patrontheque/internal/seed"
)

func (a *App) sync(ctx context.Context) error {
	if a.bridge == nil {
		fmt.Println("Remote sync is disabled.")
		return nil
	}
	if !a.session.IsDriveConnected() {
		fmt.Println("Connect remote storage first (connect).")
		return nil
	}

	if err := a.bridge.SyncAll(ctx); err != nil {
		fmt.Println("Sync failed:", err)
		return err
	}
	fmt.Println("Sync finished.")
	return nil
}

// fetch pulls every remote record and writes it into the local store. Writes
// go straight to the repository, inside one transaction, so restored records
// do not get re-uploaded and a partial restore never persists.
func (a *App) fetch(ctx context.Context) error {
	if a.bridge == nil {
		fmt.Println("Remote sync is disabled.")
		return nil
	}

	list, err := a.bridge.FetchAll(ctx)
	if err != nil {
		fmt.Println("Fetch failed:", err)
		return err
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := patrons.NewSQLiteRepository(tx)
		for _, p := range list {
			if _, err := repo.Save(ctx, &p); err != nil {
				return fmt.Errorf("saving %s: %w", p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		fmt.Println("Restore failed:", err)
		return err
	}

	for _, p := range list {
		fmt.Println("Restored", p.ID, p.Name)
	}
	fmt.Printf("%d patron(s) fetched\n", len(list))
	return nil
}

// seed reloads the bundled sample patrons, even if they were loaded before.
func (a *App) seed(ctx context.Context) error {
	if err := a.meta.Delete(ctx, common.KeySampleDataLoaded); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if err := seed.Load(ctx, a.patrons, a.meta, a.log); err != nil {
		fmt.Println("Seeding failed:", err)
		return err
	}
	fmt.Println("Sample patrons loaded.")
	return nil
}

func (a *App) status(ctx context.Context) error {
	fmt.Println("Mode:           ", a.Mode())

	if u := a.session.CurrentUser(); u != nil {
		fmt.Printf("Signed in:       %s <%s>\n", u.Name, u.Email)
	} else {
		fmt.Println("Signed in:       no")
	}
	fmt.Println("Remote storage: ", a.config.RemoteBackend)

	if a.bridge == nil {
		return nil
	}
	fmt.Println("Drive connected:", a.session.IsDriveConnected())
	fmt.Println("Sync state:     ", a.bridge.State())
	if last := a.bridge.LastSync(ctx); !last.IsZero() {
		fmt.Println("Last sync:      ", last.Local().Format("2006-01-02 15:04:05"))
	} else {
		fmt.Println("Last sync:       never")
	}
	return nil
}
