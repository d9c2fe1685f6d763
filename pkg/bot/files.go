package bot

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/ramadan-bot/botctl/pkg/utils"
)

const (
	secretsFilePerm = 0600
	dataFilePerm    = 0644
)

var ErrInvalidToken = errors.New("token must be a single line")

// ValidateToken rejects tokens that would add lines to the secrets file.
func ValidateToken(token string) error {
	if strings.ContainsAny(token, "\r\n") {
		return ErrInvalidToken
	}

	return nil
}

// ChownFunc changes the owner of a single path.
type ChownFunc func(path string) error

func SecretsPath(appDir string) string {
	return filepath.Join(appDir, SecretsFile)
}

// SeedSecrets writes the secrets file with a single token line only when it
// does not exist yet. Ownership and mode are fixed either way.
func SeedSecrets(_ context.Context, appDir string, token string, chown ChownFunc) (bool, error) {
	if err := ValidateToken(token); err != nil {
		return false, err
	}

	path := SecretsPath(appDir)

	created, err := utils.CreateFileIfNotExists(path, []byte(TokenKey+"="+token+"\n"), secretsFilePerm)
	if err != nil {
		return false, errors.WithMessage(err, "failed to create secrets file")
	}

	if err = utils.ChmodRegularFile(path, secretsFilePerm); err != nil {
		return created, errors.WithMessage(err, "failed to change secrets file mode")
	}

	if err = chown(path); err != nil {
		return created, errors.WithMessage(err, "failed to change secrets file owner")
	}

	return created, nil
}

// SeedDataFiles creates missing data files empty and returns the names it
// created. Existing files keep their content.
func SeedDataFiles(_ context.Context, appDir string, chown ChownFunc) ([]string, error) {
	created := make([]string, 0, len(DataFiles))

	for _, name := range DataFiles {
		path := filepath.Join(appDir, name)

		ok, err := utils.TouchFile(path, dataFilePerm)
		if err != nil {
			return created, errors.WithMessagef(err, "failed to create %s", name)
		}
		if ok {
			created = append(created, name)
		}

		if err = chown(path); err != nil {
			return created, errors.WithMessagef(err, "failed to change %s owner", name)
		}
	}

	return created, nil
}

// SetToken replaces the token line of an existing secrets file, adding it
// when missing.
func SetToken(ctx context.Context, appDir string, token string) error {
	path := SecretsPath(appDir)
	if err := ValidateToken(token); err != nil {
		return err
	}

	if !utils.IsFileExists(path) {
		return errors.Errorf("secrets file %s does not exist, run install first", path)
	}

	// Refuses a symlinked .env before its target is read.
	if err := utils.ChmodRegularFile(path, secretsFilePerm); err != nil {
		return errors.WithMessage(err, "failed to change secrets file mode")
	}

	err := utils.FindLineAndReplaceOrAdd(ctx, path, map[string]string{
		TokenKey + "=": TokenKey + "=" + token,
	})
	if err != nil {
		return errors.WithMessage(err, "failed to update secrets file")
	}

	return utils.ChmodRegularFile(path, secretsFilePerm)
}
