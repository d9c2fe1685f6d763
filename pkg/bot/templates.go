package bot

const systemdUnitTemplate = `[Unit]
Description=Telegram bot {{.ServiceName}}
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
User={{.User}}
Group={{.Group}}
WorkingDirectory={{.WorkingDirectory}}
ExecStart={{.ExecStart}}

# Restart policy
Restart=always
RestartSec=5

Environment=PYTHONUNBUFFERED=1

[Install]
WantedBy=multi-user.target
`
