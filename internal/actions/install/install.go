package install

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	contextInternal "github.com/ramadan-bot/botctl/internal/context"
	"github.com/ramadan-bot/botctl/pkg/bot"
	"github.com/ramadan-bot/botctl/pkg/checkout"
	"github.com/ramadan-bot/botctl/pkg/oscore"
	packagemanager "github.com/ramadan-bot/botctl/pkg/package_manager"
	"github.com/ramadan-bot/botctl/pkg/pyenv"
	"github.com/ramadan-bot/botctl/pkg/service"
	"github.com/ramadan-bot/botctl/pkg/utils"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

const (
	appDirPerm = 0755
	unitPerm   = 0644
)

type installState struct {
	Config Config

	Distribution     string
	Identity         oscore.Identity
	PackageManager   string
	PythonVersion    string
	Checkout         checkout.State
	Venv             pyenv.Result
	SecretsCreated   bool
	DataFilesCreated []string
}

type installer struct {
	out io.Writer

	isSuperuser        func() bool
	lookupIdentity     func(userName string) (oscore.Identity, error)
	loadPackageManager func(ctx context.Context) (packagemanager.PackageManager, error)
	lookPath           func(file string) (string, error)
	runAs              func(ctx context.Context, id oscore.Identity, dir string, command string, args ...string) error
	output             pyenv.OutputFunc
	chownR             func(ctx context.Context, path string, uid, gid int) error
	chown              func(path string, uid, gid int) error
	loadService        func(ctx context.Context) (service.Service, error)
	promptToken        func() (string, error)
}

func newInstaller() *installer {
	return &installer{
		out:                os.Stdout,
		isSuperuser:        oscore.IsSuperuser,
		lookupIdentity:     oscore.LookupIdentity,
		loadPackageManager: packagemanager.Load,
		lookPath:           exec.LookPath,
		runAs:              oscore.ExecCommandAs,
		output:             oscore.ExecCommandWithOutput,
		chownR:             oscore.ChownR,
		chown:              os.Lchown,
		loadService:        service.Load,
		promptToken:        promptToken,
	}
}

func Handle(cliCtx *cli.Context) error {
	if cliCtx.Args().Present() {
		return errors.Errorf("unexpected arguments: %v, configuration is read from flags and environment", cliCtx.Args().Slice())
	}

	config, err := ConfigFromCLI(cliCtx)
	if err != nil {
		return err
	}

	log.Println(contextInternal.OSInfoFromContext(cliCtx.Context).String())

	_, err = newInstaller().Install(cliCtx.Context, config)

	return err
}

type step struct {
	title   string
	failure string
	run     func(ctx context.Context, state installState) (installState, error)
}

func (i *installer) steps() []step {
	return []step{
		{"Checking preconditions", "precondition check failed", i.checkPreconditions},
		{"Installing system packages", "failed to install system packages", i.installPackages},
		{"Checking python version", "failed to check python version", i.checkPythonVersion},
		{"Preparing application directory", "failed to prepare application directory", i.createAppDir},
		{"Synchronizing repository", "failed to synchronize repository", i.syncCheckout},
		{"Provisioning virtual environment", "failed to provision virtual environment", i.provisionVenv},
		{"Seeding secrets file", "failed to seed secrets file", i.seedSecrets},
		{"Seeding data files", "failed to seed data files", i.seedDataFiles},
		{"Writing systemd unit", "failed to write systemd unit", i.writeUnit},
		{"Activating service", "failed to activate service", i.activateService},
	}
}

// Install runs every step in order and stops at the first failure. Each step
// is safe to repeat, so a failed run is recovered by running again.
func (i *installer) Install(ctx context.Context, config Config) (installState, error) {
	state := installState{
		Config:       config,
		Distribution: contextInternal.OSInfoFromContext(ctx).PrettyName,
	}

	fmt.Fprintln(i.out, "Install bot", config.ServiceName)

	for _, s := range i.steps() {
		fmt.Fprintln(i.out, s.title, "...")

		var err error
		state, err = s.run(ctx, state)
		if err != nil {
			return state, errors.WithMessage(err, s.failure)
		}
	}

	i.printSummary(state)

	return state, nil
}

func (i *installer) checkPreconditions(_ context.Context, state installState) (installState, error) {
	if !i.isSuperuser() {
		return state, &PrivilegeError{EUID: os.Geteuid()}
	}

	id, err := i.lookupIdentity(state.Config.RunUser)
	if err != nil {
		return state, err
	}
	state.Identity = id

	return state, nil
}

func (i *installer) installPackages(ctx context.Context, state installState) (installState, error) {
	pm, err := i.loadPackageManager(ctx)
	if errors.Is(err, packagemanager.ErrNoPackageManager) {
		fmt.Fprintln(i.out, "No supported package manager found, checking required tools ...")

		for _, tool := range []string{"git", state.Config.PythonBin} {
			if _, err := i.lookPath(tool); err != nil {
				return state, NewMissingDependencyError(tool)
			}
		}

		return state, nil
	}
	if err != nil {
		return state, errors.WithMessage(err, "failed to load package manager")
	}
	state.PackageManager = pm.Name()

	if err = pm.CheckForUpdates(ctx); err != nil {
		return state, errors.WithMessage(err, "failed to update package index")
	}

	python := filepath.Base(state.Config.PythonBin)

	err = pm.Install(ctx, packagemanager.GitPackage, python, python+packagemanager.VenvPackageSuffix)
	if err != nil {
		return state, errors.WithMessage(err, "failed to install packages")
	}

	return state, nil
}

func (i *installer) checkPythonVersion(ctx context.Context, state installState) (installState, error) {
	version, err := pyenv.CheckVersion(ctx, i.output, state.Config.PythonBin, pyenv.MinimumVersion)
	if err != nil {
		return state, err
	}
	state.PythonVersion = version

	return state, nil
}

func (i *installer) createAppDir(_ context.Context, state installState) (installState, error) {
	dir := state.Config.AppDir

	if utils.IsDirExists(dir) {
		return state, nil
	}
	if utils.IsFileExists(dir) {
		return state, errors.Errorf("%s exists and is not a directory", dir)
	}

	if err := os.MkdirAll(dir, appDirPerm); err != nil {
		return state, errors.WithMessage(err, "failed to create application directory")
	}

	if err := os.Chmod(dir, appDirPerm); err != nil {
		return state, errors.WithMessage(err, "failed to change application directory mode")
	}

	return state, nil
}

func (i *installer) syncCheckout(ctx context.Context, state installState) (installState, error) {
	config := state.Config
	id := state.Identity

	// git runs as the owner of the tree, which needs to own the directory
	// before a clone into it.
	err := i.chownR(ctx, config.AppDir, id.UID, id.GID)
	if err != nil {
		return state, errors.WithMessage(err, "failed to change owner of application directory")
	}

	found, err := checkout.Sync(ctx, i.runAsIdentity(id), checkout.Options{
		RepoURL: config.RepoURL,
		Branch:  config.Branch,
		Dir:     config.AppDir,
	})
	state.Checkout = found
	if err != nil {
		return state, err
	}

	if found == checkout.StatePresent {
		fmt.Fprintln(i.out, "Existing checkout updated")
	} else {
		fmt.Fprintln(i.out, "Repository cloned")
	}

	err = i.chownR(ctx, config.AppDir, id.UID, id.GID)
	if err != nil {
		return state, errors.WithMessage(err, "failed to change owner of application directory")
	}

	return state, nil
}

func (i *installer) runAsIdentity(id oscore.Identity) func(ctx context.Context, dir string, command string, args ...string) error {
	return func(ctx context.Context, dir string, command string, args ...string) error {
		return i.runAs(ctx, id, dir, command, args...)
	}
}

func (i *installer) provisionVenv(ctx context.Context, state installState) (installState, error) {
	result, err := pyenv.Provision(ctx, i.runAsIdentity(state.Identity), pyenv.Options{
		PythonBin:        state.Config.PythonBin,
		AppDir:           state.Config.AppDir,
		FallbackPackages: state.Config.FallbackPackages,
	})
	state.Venv = result
	if err != nil {
		return state, err
	}

	return state, nil
}

func (i *installer) chownToIdentity(id oscore.Identity) bot.ChownFunc {
	return func(path string) error {
		return i.chown(path, id.UID, id.GID)
	}
}

func (i *installer) seedSecrets(ctx context.Context, state installState) (installState, error) {
	config := state.Config
	token := config.Token

	if token == "" && !config.NonInteractive && i.promptToken != nil && !utils.IsFileExists(config.SecretsPath()) {
		var err error
		token, err = i.promptToken()
		if err != nil {
			return state, errors.WithMessage(err, "failed to read token")
		}
	}

	created, err := bot.SeedSecrets(ctx, config.AppDir, token, i.chownToIdentity(state.Identity))
	state.SecretsCreated = created
	if err != nil {
		return state, err
	}

	if !created {
		fmt.Fprintln(i.out, "Secrets file already exists, left unchanged")
	}

	return state, nil
}

func (i *installer) seedDataFiles(ctx context.Context, state installState) (installState, error) {
	created, err := bot.SeedDataFiles(ctx, state.Config.AppDir, i.chownToIdentity(state.Identity))
	state.DataFilesCreated = created
	if err != nil {
		return state, err
	}

	return state, nil
}

func (i *installer) writeUnit(_ context.Context, state installState) (installState, error) {
	unit, err := RenderUnit(state.Config, state.Identity)
	if err != nil {
		return state, err
	}

	if err = utils.WriteContentsToFile(unit, state.Config.UnitPath(), unitPerm); err != nil {
		return state, errors.WithMessage(err, "failed to write unit file")
	}

	return state, nil
}

// RenderUnit builds the systemd unit for config running as id.
func RenderUnit(config Config, id oscore.Identity) ([]byte, error) {
	return bot.RenderUnit(bot.UnitConfig{
		ServiceName:      config.ServiceName,
		User:             id.Username,
		Group:            id.Group,
		WorkingDirectory: config.AppDir,
		Interpreter:      pyenv.Interpreter(config.AppDir),
		Entrypoint:       config.Entrypoint,
	})
}

func (i *installer) activateService(ctx context.Context, state installState) (installState, error) {
	svc, err := i.loadService(ctx)
	if err != nil {
		return state, errors.WithMessage(err, "failed to load service manager")
	}

	name := state.Config.ServiceName

	if err = svc.DaemonReload(ctx); err != nil {
		return state, errors.WithMessage(err, "failed to reload unit files")
	}

	if err = svc.Enable(ctx, name); err != nil {
		return state, errors.WithMessagef(err, "failed to enable %s", name)
	}

	if err = svc.Restart(ctx, name); err != nil {
		return state, errors.WithMessagef(err, "failed to start %s", name)
	}

	return state, nil
}

func (i *installer) printSummary(state installState) {
	config := state.Config

	fmt.Fprintln(i.out, "")
	fmt.Fprintln(i.out, "Bot installed to", config.AppDir)
	fmt.Fprintln(i.out, "Service:", config.ServiceName, "(running as "+state.Identity.Username+")")
	if state.Distribution != "" {
		fmt.Fprintln(i.out, "System:", state.Distribution)
	}
	if state.PackageManager != "" {
		fmt.Fprintln(i.out, "Package manager:", state.PackageManager)
	}
	if state.PythonVersion != "" {
		fmt.Fprintln(i.out, "Python:", state.PythonVersion)
	}
	fmt.Fprintln(i.out, "")
	fmt.Fprintln(i.out, "Status:       systemctl status", config.ServiceName)
	fmt.Fprintln(i.out, "Logs:         journalctl -u", config.ServiceName, "-f")
	fmt.Fprintln(i.out, "Edit secrets: nano", config.SecretsPath())
	fmt.Fprintln(i.out, "Apply edits:  systemctl restart", config.ServiceName)
}

func promptToken() (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec
	if !term.IsTerminal(fd) {
		return "", nil
	}

	fmt.Print("Enter bot token (leave empty to fill in later): ")
	token, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(token)), nil
}
