package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hospitaladmin/internal/client/credentials"
	"github.com/dmitrijs2005/hospitaladmin/internal/client/repositories/users"
	"github.com/dmitrijs2005/hospitaladmin/internal/dbx"
)

const adminRole = "admin"

var ErrAdminPasswordRequired = errors.New("SEED_ADMIN_PASSWORD is required to seed an administrator")

// seedAdmin creates the administrator unless the username is taken. The
// password is stored as a bcrypt hash.
func (app *App) seedAdmin(ctx context.Context) error {
	if app.opts.AdminPassword == "" {
		return ErrAdminPasswordRequired
	}

	hash, err := credentials.HashBcrypt(app.opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash error: %w", err)
	}
	admin := &users.User{
		Username: app.opts.AdminUsername,
		Password: hash,
		Email:    app.opts.AdminEmail,
		Role:     adminRole,
		IsActive: true,
	}

	var created *users.User
	if app.db != nil {
		err = dbx.WithTx(ctx, app.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			var txErr error
			created, txErr = createIfAbsent(ctx, users.NewPostgresRepository(tx), admin)
			return txErr
		})
	} else {
		created, err = createIfAbsent(ctx, app.repo, admin)
	}
	if err != nil {
		return err
	}

	if created == nil {
		fmt.Fprintf(app.out, "User %q already exists, not seeding\n", admin.Username)
		return nil
	}
	app.log.Info(ctx, "administrator seeded", "user_id", created.ID)
	fmt.Fprintf(app.out, "Administrator %q created\n", created.Username)
	return nil
}

// createIfAbsent returns (nil, nil) when the username already exists.
func createIfAbsent(ctx context.Context, repo users.Repository, u *users.User) (*users.User, error) {
	_, err := repo.GetByUsername(ctx, u.Username)
	switch {
	case err == nil:
		return nil, nil
	case !errors.Is(err, users.ErrNoRows):
		return nil, fmt.Errorf("lookup failed: %w", err)
	}

	created, err := repo.Create(ctx, u)
	if errors.Is(err, users.ErrDuplicate) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create failed: %w", err)
	}
	return created, nil
}
