package bot

const (
	DefaultRepoURL     = "https://github.com/ramadan-bot/ramadan-bot.git"
	DefaultBranch      = "main"
	DefaultAppDir      = "/opt/ramadan-bot"
	DefaultServiceName = "ramadan-bot"
	DefaultPythonBin   = "python3"
	DefaultEntrypoint  = "bot.py"
	DefaultRunUser     = "root"

	// DefaultFallbackPackages is installed when the checkout has no
	// requirements.txt.
	DefaultFallbackPackages = "aiogram python-dotenv"

	DefaultSystemdUnitDir = "/etc/systemd/system"
)

const (
	SecretsFile = ".env"
	TokenKey    = "BOT_TOKEN"
)

// DataFiles are read by the bot from its working directory.
var DataFiles = []string{
	"time.txt",
	"molitva-saharlik.txt",
	"molitva-iftar.txt",
	"users.json",
}
