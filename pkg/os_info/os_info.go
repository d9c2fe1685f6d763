package osinfo

import (
	"bufio"
	"bytes"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/matishsiao/goInfo"
	"github.com/pkg/errors"
)

const etcOsRelease = "/etc/os-release"

type Family string

const (
	FamilyDebian  Family = "debian"
	FamilyRHEL    Family = "rhel"
	FamilyUnknown Family = "unknown"
)

type Info struct {
	Kernel               string
	Distribution         string
	DistributionVersion  string
	DistributionCodename string
	DistributionLike     []string
	PrettyName           string
	Platform             string
	OS                   string
	Hostname             string
	CPUs                 int
}

func (i Info) String() string {
	b := strings.Builder{}
	b.Grow(256) //nolint:mnd

	b.WriteString("Kernel: ")
	b.WriteString(i.Kernel)
	b.WriteString("\nDistribution: ")
	b.WriteString(i.Distribution)
	b.WriteString("\nDistributionVersion: ")
	b.WriteString(i.DistributionVersion)
	b.WriteString("\nDistributionCodename: ")
	b.WriteString(i.DistributionCodename)
	b.WriteString("\nPlatform: ")
	b.WriteString(i.Platform)
	b.WriteString("\nOS: ")
	b.WriteString(i.OS)
	b.WriteString("\nHostname: ")
	b.WriteString(i.Hostname)
	b.WriteString("\nCPUs: ")
	b.WriteString(strconv.Itoa(i.CPUs))

	return b.String()
}

// Family groups distributions by the package manager they ship.
func (i Info) Family() Family {
	ids := append([]string{i.Distribution}, i.DistributionLike...)
	for _, id := range ids {
		switch id {
		case "debian", "ubuntu", "raspbian", "linuxmint":
			return FamilyDebian
		case "rhel", "fedora", "centos", "almalinux", "rocky", "amzn":
			return FamilyRHEL
		}
	}

	return FamilyUnknown
}

func GetOSInfo() (Info, error) {
	gi, err := goInfo.GetInfo()
	if err != nil {
		return Info{}, errors.WithMessage(err, "failed to get system info")
	}

	result := Info{
		Kernel:   gi.Kernel,
		Platform: gi.Platform,
		OS:       gi.OS,
		Hostname: gi.Hostname,
		CPUs:     gi.CPUs,
	}

	if result.Platform == "" || result.Platform == "unknown" {
		result.Platform = runtime.GOARCH
	}

	switch result.Platform {
	case "x86_64":
		result.Platform = "amd64"
	case "i686", "i386":
		result.Platform = "386"
	case "aarch64":
		result.Platform = "arm64"
	case "armv7l":
		result.Platform = "arm"
	}

	if runtime.GOOS != "linux" {
		result.Distribution = gi.OS
		result.DistributionVersion = gi.Kernel

		return result, nil
	}

	data, err := os.ReadFile(etcOsRelease)
	if err != nil {
		// Not fatal: the provisioner falls back to checking binaries on PATH.
		return result, nil //nolint:nilerr
	}

	dist := parseOSRelease(data)
	result.Distribution = dist.ID
	result.DistributionVersion = dist.VersionID
	result.DistributionCodename = dist.VersionCodename
	result.DistributionLike = dist.IDLike
	result.PrettyName = dist.PrettyName

	return result, nil
}

type osRelease struct {
	ID              string
	IDLike          []string
	VersionID       string
	VersionCodename string
	PrettyName      string
}

func parseOSRelease(data []byte) osRelease {
	result := osRelease{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)

		switch key {
		case "ID":
			result.ID = strings.ToLower(value)
		case "ID_LIKE":
			result.IDLike = strings.Fields(strings.ToLower(value))
		case "VERSION_ID":
			result.VersionID = value
		case "VERSION_CODENAME":
			result.VersionCodename = strings.ToLower(value)
		case "PRETTY_NAME":
			result.PrettyName = value
		}
	}

	return result
}
