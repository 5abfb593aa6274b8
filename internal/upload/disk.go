package upload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// maxSuffix bounds the number of collision retries for one timestamp.
const maxSuffix = 1000

// Disk stores files in a local directory served under URLPrefix.
type Disk struct {
	Dir       string
	URLPrefix string
	Now       func() time.Time
}

// NewDisk creates dir if needed and returns a disk store whose references
// look like "<urlPrefix>/<name>".
func NewDisk(dir, urlPrefix string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Disk{
		Dir:       dir,
		URLPrefix: strings.TrimSuffix(urlPrefix, "/"),
		Now:       time.Now,
	}, nil
}

// Save writes the file without ever replacing an existing one. When the
// timestamped name is taken a numeric suffix is appended.
func (d *Disk) Save(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stem, ext := baseName(f, d.Now())
	for i := 0; i < maxSuffix; i++ {
		name := stem + ext
		if i > 0 {
			name = fmt.Sprintf("%s-%d%s", stem, i, ext)
		}

		fh, err := os.OpenFile(filepath.Join(d.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("creating upload file: %w", err)
		}

		_, werr := fh.Write(f.Data)
		cerr := fh.Close()
		if werr != nil || cerr != nil {
			os.Remove(fh.Name())
			return "", fmt.Errorf("writing upload file: %w", errors.Join(werr, cerr))
		}
		return d.URLPrefix + "/" + name, nil
	}
	return "", fmt.Errorf("no free file name for %s%s", stem, ext)
}

// Delete removes a previously saved file.
func (d *Disk) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, d.URLPrefix+"/") {
		return nil
	}
	name := path.Base(ref)
	if name == "." || name == "/" || name == ".." {
		return nil
	}

	err := os.Remove(filepath.Join(d.Dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing upload file: %w", err)
	}
	return nil
}
