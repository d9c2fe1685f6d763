package packagemanager

const GitPackage = "git"

// VenvPackageSuffix is appended to the interpreter package name to get the
// package that ships its venv module on Debian-based systems.
const VenvPackageSuffix = "-venv"

const (
	ManagerAPT = "apt"
	ManagerDNF = "dnf"
	ManagerYUM = "yum"
)
