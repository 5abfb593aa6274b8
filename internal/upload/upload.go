// Package upload stores uploaded pictures and returns the reference that is
// saved on the item.
package upload

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"
)

// File is a single uploaded file after processing.
type File struct {
	// Field is the multipart form field the file arrived in.
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Store persists uploaded files.
type Store interface {
	// Save stores the file and returns its public reference.
	Save(ctx context.Context, f File) (string, error)
	// Delete removes a file by the reference Save returned. Unknown
	// references are ignored.
	Delete(ctx context.Context, ref string) error
}

// typeExtensions lists the accepted extensions per content type. The first
// one is used when the client filename disagrees.
var typeExtensions = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// baseName returns "<field>-<unixmillis><ext>". A known content type
// decides the extension; the client filename only picks between its
// accepted spellings.
func baseName(f File, now time.Time) (stem, ext string) {
	field := unsafeChars.ReplaceAllString(f.Field, "")
	if field == "" {
		field = "file"
	}
	return fmt.Sprintf("%s-%d", field, now.UnixMilli()), extension(f)
}

func extension(f File) string {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	if allowed, ok := typeExtensions[f.ContentType]; ok {
		if slices.Contains(allowed, ext) {
			return ext
		}
		return allowed[0]
	}
	if len(ext) < 2 || unsafeChars.MatchString(ext[1:]) {
		return ""
	}
	return ext
}
