package db

import (
	"github.com/pkg/errors"

	"github.com/akuaasantewaa/fitta/internal/profile"
	"github.com/akuaasantewaa/fitta/store"
	"github.com/akuaasantewaa/fitta/store/db/postgres"
	"github.com/akuaasantewaa/fitta/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
// SQLite serves development and small deployments; PostgreSQL is the
// production driver.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'sqlite' and 'postgres' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
