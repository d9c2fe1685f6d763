package bot

import (
	"bytes"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

var unitTemplate = template.Must(template.New("systemd.unit").Parse(systemdUnitTemplate))

// UnitConfig is everything the rendered unit depends on.
type UnitConfig struct {
	ServiceName      string
	User             string
	Group            string
	WorkingDirectory string
	Interpreter      string
	Entrypoint       string
}

type systemdUnitData struct {
	ServiceName      string
	User             string
	Group            string
	WorkingDirectory string
	ExecStart        string
}

// RenderUnit is deterministic: equal configs give byte-identical output.
func RenderUnit(config UnitConfig) ([]byte, error) {
	entrypoint := config.Entrypoint
	if !filepath.IsAbs(entrypoint) {
		entrypoint = filepath.Join(config.WorkingDirectory, entrypoint)
	}

	data := systemdUnitData{
		ServiceName:      config.ServiceName,
		User:             config.User,
		Group:            config.Group,
		WorkingDirectory: config.WorkingDirectory,
		ExecStart:        execStart(config.Interpreter, entrypoint),
	}

	var buf bytes.Buffer
	if err := unitTemplate.Execute(&buf, data); err != nil {
		return nil, errors.WithMessage(err, "failed to execute systemd unit template")
	}

	return buf.Bytes(), nil
}

func UnitPath(unitDir, serviceName string) string {
	return filepath.Join(unitDir, serviceName+".service")
}

// execStart joins words with systemd command line quoting. Specifiers and
// variables are escaped so paths are taken literally.
func execStart(words ...string) string {
	quoted := make([]string, 0, len(words))

	for _, w := range words {
		w = strings.ReplaceAll(w, "%", "%%")
		w = strings.ReplaceAll(w, "$", "$$")

		if w != "" && !strings.ContainsAny(w, " \t\"'\\;") {
			quoted = append(quoted, w)

			continue
		}

		w = strings.ReplaceAll(w, `\`, `\\`)
		w = strings.ReplaceAll(w, `"`, `\"`)
		quoted = append(quoted, `"`+w+`"`)
	}

	return strings.Join(quoted, " ")
}
