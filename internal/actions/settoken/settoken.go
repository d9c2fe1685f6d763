package settoken

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/ramadan-bot/botctl/internal/actions/install"
	"github.com/ramadan-bot/botctl/pkg/bot"
	"github.com/ramadan-bot/botctl/pkg/oscore"
	"github.com/ramadan-bot/botctl/pkg/service"
	"github.com/urfave/cli/v2"
)

var errEmptyToken = errors.New("empty token")

// Handle replaces BOT_TOKEN in an existing secrets file. Unlike install it
// overwrites the value, because the operator asked for it explicitly.
func Handle(cliCtx *cli.Context) error {
	if !oscore.IsSuperuser() {
		return &install.PrivilegeError{EUID: os.Geteuid()}
	}

	token, appDir, err := resolveInput(cliCtx.String("token"), cliCtx.Args().First(), cliCtx.String("app-dir"))
	if err != nil {
		return err
	}

	if err = bot.SetToken(cliCtx.Context, appDir, token); err != nil {
		return err
	}
	fmt.Println("Token updated in", bot.SecretsPath(appDir))

	if !cliCtx.Bool("restart") {
		return nil
	}

	svc, err := service.Load(cliCtx.Context)
	if err != nil {
		return err
	}

	name := cliCtx.String("service-name")
	if err = svc.Restart(cliCtx.Context, name); err != nil {
		return errors.WithMessagef(err, "failed to restart %s", name)
	}

	return nil
}

// resolveInput prefers the --token flag over the positional argument.
func resolveInput(tokenFlag, tokenArg, appDirFlag string) (string, string, error) {
	token := strings.TrimSpace(tokenFlag)
	if token == "" {
		token = strings.TrimSpace(tokenArg)
	}
	if token == "" {
		return "", "", errEmptyToken
	}
	if err := bot.ValidateToken(token); err != nil {
		return "", "", err
	}

	appDir := filepath.Clean(strings.TrimSpace(appDirFlag))
	if err := install.ValidateAppDir(appDir); err != nil {
		return "", "", err
	}

	return token, appDir, nil
}
