package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderUnit(t *testing.T) {
	unit, err := RenderUnit(UnitConfig{
		ServiceName:      "ramadan-bot",
		User:             "deploy",
		Group:            "deploy",
		WorkingDirectory: "/opt/ramadan-bot",
		Interpreter:      "/opt/ramadan-bot/venv/bin/python",
		Entrypoint:       "bot.py",
	})

	require.NoError(t, err)
	assert.Equal(t, `[Unit]
Description=Telegram bot ramadan-bot
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
User=deploy
Group=deploy
WorkingDirectory=/opt/ramadan-bot
ExecStart=/opt/ramadan-bot/venv/bin/python /opt/ramadan-bot/bot.py

# Restart policy
Restart=always
RestartSec=5

Environment=PYTHONUNBUFFERED=1

[Install]
WantedBy=multi-user.target
`, string(unit))
}

func TestRenderUnit_deterministic(t *testing.T) {
	config := UnitConfig{
		ServiceName:      "bot",
		User:             "bot",
		Group:            "nogroup",
		WorkingDirectory: "/srv/bot",
		Interpreter:      "/srv/bot/venv/bin/python",
		Entrypoint:       "/srv/bot/main.py",
	}

	first, err := RenderUnit(config)
	require.NoError(t, err)
	second, err := RenderUnit(config)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, string(first), "ExecStart=/srv/bot/venv/bin/python /srv/bot/main.py\n")
}

func TestRenderUnit_quotesPathsWithSpaces(t *testing.T) {
	unit, err := RenderUnit(UnitConfig{
		ServiceName:      "bot",
		User:             "bot",
		Group:            "bot",
		WorkingDirectory: "/srv/my bot",
		Interpreter:      "/srv/my bot/venv/bin/python",
		Entrypoint:       "bot.py",
	})

	require.NoError(t, err)
	assert.Contains(t, string(unit), `ExecStart="/srv/my bot/venv/bin/python" "/srv/my bot/bot.py"`)
}

func Test_execStart(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		want  string
	}{
		{"plain", []string{"/usr/bin/python", "bot.py"}, "/usr/bin/python bot.py"},
		{"specifier", []string{"/srv/100%/bot.py"}, "/srv/100%%/bot.py"},
		{"variable", []string{"/srv/$HOME/bot.py"}, "/srv/$$HOME/bot.py"},
		{"quote", []string{`/srv/a"b`}, `"/srv/a\"b"`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, execStart(test.words...))
		})
	}
}

func TestUnitPath(t *testing.T) {
	assert.Equal(t, "/etc/systemd/system/ramadan-bot.service", UnitPath(DefaultSystemdUnitDir, "ramadan-bot"))
}
