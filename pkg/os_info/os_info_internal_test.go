package osinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_parseOSRelease(t *testing.T) {
	tests := []struct {
		name string
		data string
		want osRelease
	}{
		{
			name: "debian bookworm",
			data: `PRETTY_NAME="Debian GNU/Linux 12 (bookworm)"
NAME="Debian GNU/Linux"
VERSION_ID="12"
VERSION="12 (bookworm)"
VERSION_CODENAME=bookworm
ID=debian
`,
			want: osRelease{
				ID:              "debian",
				VersionID:       "12",
				VersionCodename: "bookworm",
				PrettyName:      "Debian GNU/Linux 12 (bookworm)",
			},
		},
		{
			name: "rocky with id_like",
			data: `NAME="Rocky Linux"
ID="rocky"
ID_LIKE="rhel centos fedora"
VERSION_ID="9.3"
# comment
PRETTY_NAME="Rocky Linux 9.3 (Blue Onyx)"
`,
			want: osRelease{
				ID:         "rocky",
				IDLike:     []string{"rhel", "centos", "fedora"},
				VersionID:  "9.3",
				PrettyName: "Rocky Linux 9.3 (Blue Onyx)",
			},
		},
		{
			name: "empty",
			data: "",
			want: osRelease{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, parseOSRelease([]byte(test.data)))
		})
	}
}

func TestInfo_Family(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want Family
	}{
		{"ubuntu", Info{Distribution: "ubuntu"}, FamilyDebian},
		{"pop via id_like", Info{Distribution: "pop", DistributionLike: []string{"ubuntu", "debian"}}, FamilyDebian},
		{"almalinux", Info{Distribution: "almalinux"}, FamilyRHEL},
		{"ol via id_like", Info{Distribution: "ol", DistributionLike: []string{"fedora"}}, FamilyRHEL},
		{"arch", Info{Distribution: "arch"}, FamilyUnknown},
		{"empty", Info{}, FamilyUnknown},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, test.info.Family())
		})
	}
}
