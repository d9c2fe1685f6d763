package packagemanager

import (
	"context"
	_ "embed"
	"log"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

//go:embed aliases.yaml
var aliasesYAML []byte

type aliasesConfig struct {
	Packages []packageAlias `yaml:"packages"`
	Suffixes []suffixAlias  `yaml:"suffixes"`
}

type packageAlias struct {
	Name    string            `yaml:"name"`
	Replace map[string]string `yaml:"replace"`
}

type suffixAlias struct {
	Suffix  string            `yaml:"suffix"`
	Replace map[string]string `yaml:"replace"`
}

// Aliases translates logical package names for one package manager.
type Aliases struct {
	names    map[string]string
	suffixes []suffixReplacement
}

type suffixReplacement struct {
	from string
	to   string
}

func LoadAliases(manager string) (Aliases, error) {
	return parseAliases(aliasesYAML, manager)
}

func parseAliases(data []byte, manager string) (Aliases, error) {
	var config aliasesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Aliases{}, errors.Wrap(err, "failed to unmarshal aliases")
	}

	result := Aliases{
		names: make(map[string]string, len(config.Packages)),
	}

	for _, p := range config.Packages {
		if replacement := p.Replace[manager]; replacement != "" {
			result.names[p.Name] = replacement
		}
	}

	result.suffixes = lo.FilterMap(config.Suffixes, func(s suffixAlias, _ int) (suffixReplacement, bool) {
		replacement, ok := s.Replace[manager]

		return suffixReplacement{from: s.Suffix, to: replacement}, ok && s.Suffix != ""
	})

	return result, nil
}

func (a Aliases) Resolve(name string) string {
	if replacement, ok := a.names[name]; ok {
		return replacement
	}

	for _, s := range a.suffixes {
		if strings.HasSuffix(name, s.from) {
			return strings.TrimSuffix(name, s.from) + s.to
		}
	}

	return name
}

type aliased struct {
	aliases    Aliases
	underlined PackageManager
}

func newAliased(underlined PackageManager, aliases Aliases) *aliased {
	return &aliased{
		aliases:    aliases,
		underlined: underlined,
	}
}

func (a *aliased) Name() string {
	return a.underlined.Name()
}

func (a *aliased) CheckForUpdates(ctx context.Context) error {
	return a.underlined.CheckForUpdates(ctx)
}

func (a *aliased) Install(ctx context.Context, packs ...string) error {
	resolved := lo.Map(normalizePackages(packs), func(pack string, _ int) string {
		r := a.aliases.Resolve(pack)
		if r != pack {
			log.Printf("Package %s replaced with %s\n", pack, r)
		}

		return r
	})

	return a.underlined.Install(ctx, normalizePackages(resolved)...)
}
