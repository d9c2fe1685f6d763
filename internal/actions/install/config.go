package install

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gopherclass/go-shellquote"
	"github.com/pkg/errors"
	"github.com/ramadan-bot/botctl/pkg/bot"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
)

const (
	flagRepoURL          = "repo-url"
	flagBranch           = "branch"
	flagAppDir           = "app-dir"
	flagServiceName      = "service-name"
	flagPythonBin        = "python-bin"
	flagRunUser          = "run-user"
	flagEntrypoint       = "entrypoint"
	flagFallbackPackages = "fallback-packages"
	flagToken            = "token"
	flagUnitDir          = "unit-dir"
	flagNonInteractive   = "non-interactive"
)

var serviceNameRegexp = regexp.MustCompile(`^[a-zA-Z0-9:_.@-]+$`)

// Config is resolved once before the first step and passed by value.
type Config struct {
	RepoURL          string
	Branch           string
	AppDir           string
	ServiceName      string
	PythonBin        string
	RunUser          string
	Entrypoint       string
	FallbackPackages []string
	Token            string
	UnitDir          string
	NonInteractive   bool
}

// Flags are shared by every command that needs the bot configuration.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagRepoURL,
			Usage:   "git repository with the bot sources",
			EnvVars: []string{"REPO_URL"},
			Value:   bot.DefaultRepoURL,
		},
		&cli.StringFlag{
			Name:    flagBranch,
			Usage:   "branch to check out",
			EnvVars: []string{"BRANCH"},
			Value:   bot.DefaultBranch,
		},
		&cli.StringFlag{
			Name:    flagAppDir,
			Usage:   "installation directory",
			EnvVars: []string{"APP_DIR"},
			Value:   bot.DefaultAppDir,
		},
		&cli.StringFlag{
			Name:    flagServiceName,
			Usage:   "systemd service name",
			EnvVars: []string{"SERVICE_NAME"},
			Value:   bot.DefaultServiceName,
		},
		&cli.StringFlag{
			Name:    flagPythonBin,
			Usage:   "python interpreter used to create the virtual environment",
			EnvVars: []string{"PYTHON_BIN"},
			Value:   bot.DefaultPythonBin,
		},
		&cli.StringFlag{
			Name:        flagRunUser,
			Usage:       "account the bot runs as",
			EnvVars:     []string{"RUN_USER"},
			DefaultText: "$SUDO_USER or " + bot.DefaultRunUser,
		},
		&cli.StringFlag{
			Name:    flagEntrypoint,
			Usage:   "script started by the service, relative to the installation directory",
			EnvVars: []string{"ENTRYPOINT"},
			Value:   bot.DefaultEntrypoint,
		},
		&cli.StringFlag{
			Name:    flagFallbackPackages,
			Usage:   "packages installed when the repository has no requirements.txt",
			EnvVars: []string{"FALLBACK_PACKAGES"},
			Value:   bot.DefaultFallbackPackages,
		},
		&cli.StringFlag{
			Name:    flagToken,
			Usage:   "bot token written to a newly created .env",
			EnvVars: []string{"BOT_TOKEN"},
		},
		&cli.StringFlag{
			Name:    flagUnitDir,
			Usage:   "directory for the systemd unit file",
			EnvVars: []string{"UNIT_DIR"},
			Value:   bot.DefaultSystemdUnitDir,
			Hidden:  true,
		},
	}
}

// ConfigFromCLI resolves and validates the configuration.
func ConfigFromCLI(cliCtx *cli.Context) (Config, error) {
	fallback, err := shellquote.Split(cliCtx.String(flagFallbackPackages))
	if err != nil {
		return Config{}, errors.WithMessage(err, "invalid fallback packages")
	}

	config := Config{
		RepoURL:          strings.TrimSpace(cliCtx.String(flagRepoURL)),
		Branch:           strings.TrimSpace(cliCtx.String(flagBranch)),
		AppDir:           strings.TrimSpace(cliCtx.String(flagAppDir)),
		ServiceName:      strings.TrimSpace(cliCtx.String(flagServiceName)),
		PythonBin:        strings.TrimSpace(cliCtx.String(flagPythonBin)),
		RunUser:          strings.TrimSpace(cliCtx.String(flagRunUser)),
		Entrypoint:       strings.TrimSpace(cliCtx.String(flagEntrypoint)),
		FallbackPackages: fallback,
		Token:            strings.TrimSpace(cliCtx.String(flagToken)),
		UnitDir:          cliCtx.String(flagUnitDir),
		NonInteractive:   cliCtx.Bool(flagNonInteractive),
	}.withDefaults(os.Getenv)

	if err = config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) withDefaults(getenv func(string) string) Config {
	if c.RunUser == "" {
		c.RunUser = getenv("SUDO_USER")
	}
	if c.RunUser == "" {
		c.RunUser = bot.DefaultRunUser
	}
	if c.UnitDir == "" {
		c.UnitDir = bot.DefaultSystemdUnitDir
	}
	if c.Entrypoint == "" {
		c.Entrypoint = bot.DefaultEntrypoint
	}
	c.ServiceName = strings.TrimSuffix(c.ServiceName, ".service")
	if c.AppDir != "" {
		c.AppDir = filepath.Clean(c.AppDir)
	}

	return c
}

func (c Config) Validate() error {
	var err error

	if c.RepoURL == "" {
		err = multierr.Append(err, errors.New("repository url is empty"))
	}
	if c.Branch == "" || strings.HasPrefix(c.Branch, "-") {
		err = multierr.Append(err, errors.Errorf("invalid branch %q", c.Branch))
	}
	if dirErr := ValidateAppDir(c.AppDir); dirErr != nil {
		err = multierr.Append(err, dirErr)
	}
	if !serviceNameRegexp.MatchString(c.ServiceName) {
		err = multierr.Append(err, errors.Errorf("invalid service name %q", c.ServiceName))
	}
	if c.PythonBin == "" {
		err = multierr.Append(err, errors.New("python binary is empty"))
	}
	if c.RunUser == "" {
		err = multierr.Append(err, errors.New("run user is empty"))
	}
	if tokenErr := bot.ValidateToken(c.Token); tokenErr != nil {
		err = multierr.Append(err, tokenErr)
	}

	if err != nil {
		return errors.WithMessage(err, "invalid configuration")
	}

	return nil
}

// ValidateAppDir expects a cleaned path.
func ValidateAppDir(dir string) error {
	if !filepath.IsAbs(dir) || dir == "/" {
		return errors.Errorf("installation directory must be an absolute path other than /, got %q", dir)
	}

	return nil
}

func (c Config) SecretsPath() string {
	return bot.SecretsPath(c.AppDir)
}

func (c Config) UnitPath() string {
	return bot.UnitPath(c.UnitDir, c.ServiceName)
}
