package app

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		logPath  string
		wantCode int
		want     string
	}{
		{
			name:     "success",
			wantCode: 0,
			want:     "",
		},
		{
			name:     "failure",
			err:      errors.New("precondition check failed: must be run as root (effective uid 1000)"),
			wantCode: 1,
			want:     "botctl: error: precondition check failed: must be run as root (effective uid 1000)\n",
		},
		{
			name:     "failure with log file",
			err:      errors.New("failed to install system packages"),
			logPath:  "/var/log/botctl/2026-10-17_10-00-00.log",
			wantCode: 1,
			want: "botctl: error: failed to install system packages\n" +
				"See details in log file: /var/log/botctl/2026-10-17_10-00-00.log\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buf := &bytes.Buffer{}

			code := reportError(buf, test.err, test.logPath)

			assert.Equal(t, test.wantCode, code)
			assert.Equal(t, test.want, buf.String())
		})
	}
}

func TestApp_installRejectsArguments(t *testing.T) {
	err := newApp().Run([]string{"botctl", "install", "extra"})

	require.Error(t, err)
	buf := &bytes.Buffer{}
	assert.Equal(t, 1, reportError(buf, err, ""))
	assert.Contains(t, buf.String(), "botctl: error: unexpected arguments")
}
