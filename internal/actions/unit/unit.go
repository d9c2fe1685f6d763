package unit

import (
	"os"

	"github.com/pkg/errors"
	"github.com/ramadan-bot/botctl/internal/actions/install"
	"github.com/ramadan-bot/botctl/pkg/oscore"
	"github.com/urfave/cli/v2"
)

// Handle prints the unit install would write, without touching the system.
func Handle(cliCtx *cli.Context) error {
	config, err := install.ConfigFromCLI(cliCtx)
	if err != nil {
		return err
	}

	id, err := oscore.LookupIdentity(config.RunUser)
	if err != nil {
		return err
	}

	contents, err := install.RenderUnit(config, id)
	if err != nil {
		return err
	}

	if _, err = os.Stdout.Write(contents); err != nil {
		return errors.WithMessage(err, "failed to write unit")
	}

	return nil
}
