package app

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ramadan-bot/botctl/internal/actions/control"
	"github.com/ramadan-bot/botctl/internal/actions/install"
	"github.com/ramadan-bot/botctl/internal/actions/settoken"
	"github.com/ramadan-bot/botctl/internal/actions/unit"
	contextInternal "github.com/ramadan-bot/botctl/internal/context"
	"github.com/ramadan-bot/botctl/pkg/bot"
	"github.com/ramadan-bot/botctl/pkg/oscore"
	"github.com/urfave/cli/v2"
)

const logDir = "/var/log/botctl/"

func Run(args []string) {
	logPath := setupLog()

	err := newApp().Run(args)
	if code := reportError(os.Stderr, err, logPath); code != 0 {
		os.Exit(code)
	}
}

// reportError prints err for the operator and returns the process exit code.
func reportError(w io.Writer, err error, logPath string) int {
	if err == nil {
		return 0
	}

	log.Println(err)
	fmt.Fprintln(w, "botctl: error:", err)
	if logPath != "" {
		fmt.Fprintln(w, "See details in log file:", logPath)
	}

	return 1
}

// nolint:funlen
func newApp() *cli.App {
	return &cli.App{
		Name:      "botctl",
		Usage:     "Telegram bot provisioning",
		UsageText: "sudo botctl install",
		Before: func(context *cli.Context) error {
			ctx, err := contextInternal.SetOSContext(context.Context)
			if err != nil {
				slog.Warn("failed to detect operating system", slog.String("err", err.Error()))

				return nil
			}
			context.Context = ctx

			return nil
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "non-interactive",
				EnvVars: []string{"NON_INTERACTIVE"},
				Value:   false,
			},
		},
		Commands: []*cli.Command{
			{
				Name:        "install",
				Aliases:     []string{"i"},
				Description: "Install or update the bot and its systemd service. Safe to run repeatedly.",
				Usage:       "Install or update the bot",
				Flags:       install.Flags(),
				Action:      install.Handle,
			},
			{
				Name:        "unit",
				Description: "Print the systemd unit install would write",
				Usage:       "Print the systemd unit",
				Flags:       install.Flags(),
				Action:      unit.Handle,
			},
			{
				Name:      "set-token",
				Usage:     "Replace BOT_TOKEN in the secrets file",
				ArgsUsage: "[token]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "token",
						EnvVars: []string{"BOT_TOKEN"},
					},
					&cli.StringFlag{
						Name:    "app-dir",
						EnvVars: []string{"APP_DIR"},
						Value:   bot.DefaultAppDir,
					},
					control.ServiceNameFlag(),
					&cli.BoolFlag{
						Name:  "restart",
						Usage: "restart the service afterwards",
						Value: true,
					},
				},
				Action: settoken.Handle,
			},
			{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start the bot service",
				Flags:   []cli.Flag{control.ServiceNameFlag()},
				Action:  control.Start,
			},
			{
				Name:   "stop",
				Usage:  "Stop the bot service",
				Flags:  []cli.Flag{control.ServiceNameFlag()},
				Action: control.Stop,
			},
			{
				Name:    "restart",
				Aliases: []string{"r"},
				Usage:   "Restart the bot service",
				Flags:   []cli.Flag{control.ServiceNameFlag()},
				Action:  control.Restart,
			},
			{
				Name:   "status",
				Usage:  "Show the bot service status",
				Flags:  []cli.Flag{control.ServiceNameFlag()},
				Action: control.Status,
			},
			{
				Name:   "logs",
				Usage:  "Show recent bot logs",
				Flags:  []cli.Flag{control.ServiceNameFlag(), control.LinesFlag()},
				Action: control.Logs,
			},
		},
	}
}

// setupLog sends the command trace to a file under /var/log/botctl when
// running as root. Otherwise nothing is created and the trace goes to stderr.
func setupLog() string {
	if !oscore.IsSuperuser() {
		log.SetOutput(os.Stderr)

		return ""
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatalf("Error creating log directory: %s", err)
	}

	logPath := logDir + fmt.Sprintf("%s.log", time.Now().Format("2006-01-02_15-04-05"))
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0640)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}

	log.SetOutput(logFile)

	return logPath
}
