package setup

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/hospitaladmin/internal/flagx"
)

// Options are the setup tool's own flags. Connection settings come from
// config.Config.
type Options struct {
	Apply         bool
	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

var ownFlags = []string{"-apply", "-admin", "-admin-email"}

// ParseOptions reads the tool flags from os.Args. The administrator
// password is taken from SEED_ADMIN_PASSWORD so it stays out of the
// process list.
func ParseOptions() Options {
	return parseOptions(os.Args[1:], os.Getenv("SEED_ADMIN_PASSWORD"))
}

func parseOptions(args []string, password string) Options {
	opts := Options{AdminPassword: password}

	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	fs.BoolVar(&opts.Apply, "apply", false, "apply migrations through DATABASE_URL instead of printing the SQL")
	fs.StringVar(&opts.AdminUsername, "admin", "", "seed an administrator with this username")
	fs.StringVar(&opts.AdminEmail, "admin-email", "", "email of the seeded administrator")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		panic(err)
	}
	return opts
}
