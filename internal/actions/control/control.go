package control

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/ramadan-bot/botctl/pkg/bot"
	"github.com/ramadan-bot/botctl/pkg/service"
	"github.com/urfave/cli/v2"
)

const (
	flagServiceName = "service-name"
	flagLines       = "lines"

	defaultLogLines = 100
)

func ServiceNameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagServiceName,
		Usage:   "systemd service name",
		EnvVars: []string{"SERVICE_NAME"},
		Value:   bot.DefaultServiceName,
	}
}

func LinesFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    flagLines,
		Aliases: []string{"n"},
		Usage:   "number of journal lines to show",
		Value:   defaultLogLines,
	}
}

func Start(cliCtx *cli.Context) error {
	name := cliCtx.String(flagServiceName)
	fmt.Println("Starting", name, "...")

	svc, err := service.Load(cliCtx.Context)
	if err != nil {
		return err
	}

	if err = svc.Start(cliCtx.Context, name); err != nil {
		return errors.WithMessagef(err, "failed to start %s", name)
	}

	return nil
}

func Stop(cliCtx *cli.Context) error {
	name := cliCtx.String(flagServiceName)
	fmt.Println("Stopping", name, "...")

	svc, err := service.Load(cliCtx.Context)
	if err != nil {
		return err
	}

	if err = svc.Stop(cliCtx.Context, name); err != nil {
		return errors.WithMessagef(err, "failed to stop %s", name)
	}

	return nil
}

func Restart(cliCtx *cli.Context) error {
	name := cliCtx.String(flagServiceName)
	fmt.Println("Restarting", name, "...")

	svc, err := service.Load(cliCtx.Context)
	if err != nil {
		return err
	}

	if err = svc.Restart(cliCtx.Context, name); err != nil {
		return errors.WithMessagef(err, "failed to restart %s", name)
	}

	return nil
}

func Status(cliCtx *cli.Context) error {
	name := cliCtx.String(flagServiceName)

	svc, err := service.Load(cliCtx.Context)
	if err != nil {
		return err
	}

	err = svc.Status(cliCtx.Context, name)
	if errors.Is(err, service.ErrInactiveService) {
		return errors.Errorf("%s is not running", name)
	}
	if err != nil {
		return errors.WithMessage(err, "failed to get service status")
	}

	return nil
}

func Logs(cliCtx *cli.Context) error {
	name := cliCtx.String(flagServiceName)

	svc, err := service.Load(cliCtx.Context)
	if err != nil {
		return err
	}

	if err = svc.Logs(cliCtx.Context, name, cliCtx.Int(flagLines)); err != nil {
		return errors.WithMessage(err, "failed to read service logs")
	}

	return nil
}
