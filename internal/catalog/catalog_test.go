package catalog

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/portfolio/internal/db"
	"github.com/erazemk/portfolio/internal/model"
	"github.com/erazemk/portfolio/internal/store/sqlite"
	"github.com/erazemk/portfolio/internal/upload"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func picture(t *testing.T, field string) Picture {
	return Picture{Field: field, Filename: "photo.png", Content: bytes.NewReader(testPNG(t))}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestService(t *testing.T) (*Service, *upload.Disk) {
	t.Helper()
	st := sqlite.New(db.NewTestDB(t))
	disk, err := upload.NewDisk(t.TempDir(), "/uploads")
	require.NoError(t, err)

	svc := New(st, st, disk, nil)
	c := &clock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc.Now = c.now
	return svc, disk
}

func storedFiles(t *testing.T, d *upload.Disk) []string {
	t.Helper()
	entries, err := os.ReadDir(d.Dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func addTestItem(t *testing.T, svc *Service) *model.Item {
	t.Helper()
	item, err := svc.AddItem(context.Background(), AddItemInput{
		ItemID:      "ISB-001",
		Name:        "Faisal Mosque",
		Description: "A mosque in Islamabad",
	}, ptr(picture(t, "picture")))
	require.NoError(t, err)
	return item
}

func ptr[T any](v T) *T { return &v }

func TestAddItem(t *testing.T) {
	svc, disk := newTestService(t)
	ctx := context.Background()

	item := addTestItem(t, svc)
	require.NotEmpty(t, item.ID)
	require.Len(t, item.Pictures, 1)
	require.True(t, strings.HasPrefix(item.Pictures[0], "/uploads/picture-"))
	require.Equal(t, []model.LocalizedName{{Locale: "", Name: "Faisal Mosque"}}, item.Names)
	require.Equal(t, []model.LocalizedDescription{{Locale: "", Description: "A mosque in Islamabad"}}, item.Descriptions)
	require.Len(t, storedFiles(t, disk), 1)

	items, err := svc.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestAddItemWithLocale(t *testing.T) {
	svc, _ := newTestService(t)

	item, err := svc.AddItem(context.Background(), AddItemInput{
		ItemID: "ISB-002", Name: "Lok Virsa", Description: "Museum", Locale: "en",
	}, ptr(picture(t, "picture")))
	require.NoError(t, err)
	require.Equal(t, "en", item.Names[0].Locale)
	require.Equal(t, "en", item.Descriptions[0].Locale)
}

func TestAddItemRejectsMissingInput(t *testing.T) {
	tests := []struct {
		name string
		in   AddItemInput
		pic  bool
		msg  string
	}{
		{"no file", AddItemInput{ItemID: "1", Name: "n", Description: "d"}, false, "No file uploaded"},
		{"no item id", AddItemInput{Name: "n", Description: "d"}, true, "itemId"},
		{"no name", AddItemInput{ItemID: "1", Description: "d"}, true, "name"},
		{"no description", AddItemInput{ItemID: "1", Name: "n"}, true, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, disk := newTestService(t)
			var pic *Picture
			if tt.pic {
				pic = ptr(picture(t, "picture"))
			}
			_, err := svc.AddItem(context.Background(), tt.in, pic)
			require.ErrorIs(t, err, model.ErrInvalidInput)
			require.Contains(t, err.Error(), tt.msg)
			require.Empty(t, storedFiles(t, disk))
		})
	}
}

func TestAddItemRejectsNonImage(t *testing.T) {
	svc, disk := newTestService(t)

	_, err := svc.AddItem(context.Background(), AddItemInput{ItemID: "1", Name: "n", Description: "d"},
		&Picture{Field: "picture", Filename: "evil.png", Content: strings.NewReader("<?php echo 1; ?>")})
	require.ErrorIs(t, err, model.ErrInvalidInput)
	require.Empty(t, storedFiles(t, disk))
}

func TestAddItemUsesSniffedExtension(t *testing.T) {
	svc, disk := newTestService(t)

	item, err := svc.AddItem(context.Background(), AddItemInput{ItemID: "1", Name: "n", Description: "d"},
		&Picture{Field: "picture", Filename: "evil.html", Content: bytes.NewReader(testPNG(t))})
	require.NoError(t, err)
	require.Len(t, item.Pictures, 1)
	require.True(t, strings.HasSuffix(item.Pictures[0], ".png"), item.Pictures[0])

	files := storedFiles(t, disk)
	require.Len(t, files, 1)
	require.Equal(t, ".png", filepath.Ext(files[0]))
}

func TestEditItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	item := addTestItem(t, svc)

	edited, err := svc.EditItem(ctx, item.ID, EditItemInput{
		Names:        `[{"locale":"en","name":"Faisal Mosque"},{"locale":"ur","name":"فیصل مسجد"}]`,
		Descriptions: `[{"locale":"en","description":"Largest mosque in Pakistan"}]`,
		Pictures:     []Picture{picture(t, "pictures"), picture(t, "pictures")},
	})
	require.NoError(t, err)
	require.Len(t, edited.Pictures, 2)
	require.Len(t, edited.Names, 2)
	require.True(t, edited.UpdatedAt.After(edited.CreatedAt))

	got, err := svc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, "فیصل مسجد", got.Name("ur"))
	require.Equal(t, edited.Pictures, got.Pictures)
}

func TestEditItemZeroPicturesClearsList(t *testing.T) {
	svc, _ := newTestService(t)
	item := addTestItem(t, svc)

	edited, err := svc.EditItem(context.Background(), item.ID, EditItemInput{Names: `[]`, Descriptions: `[]`})
	require.NoError(t, err)
	require.Empty(t, edited.Pictures)
	require.Empty(t, edited.Names)
}

func TestEditItemRejectsBadInputBeforeWriting(t *testing.T) {
	tests := []struct {
		name string
		in   func(t *testing.T) EditItemInput
	}{
		{"malformed names", func(t *testing.T) EditItemInput {
			return EditItemInput{Names: `[{"locale":`, Descriptions: `[]`, Pictures: []Picture{picture(t, "pictures")}}
		}},
		{"unknown field", func(t *testing.T) EditItemInput {
			return EditItemInput{Names: `[{"lang":"en","name":"x"}]`, Descriptions: `[]`}
		}},
		{"object instead of array", func(t *testing.T) EditItemInput {
			return EditItemInput{Names: `[]`, Descriptions: `{"locale":"en"}`}
		}},
		{"trailing data", func(t *testing.T) EditItemInput {
			return EditItemInput{Names: `[] []`, Descriptions: `[]`}
		}},
		{"empty names", func(t *testing.T) EditItemInput {
			return EditItemInput{Names: ``, Descriptions: `[]`}
		}},
		{"too many pictures", func(t *testing.T) EditItemInput {
			pics := make([]Picture, MaxEditPictures+1)
			for i := range pics {
				pics[i] = picture(t, "pictures")
			}
			return EditItemInput{Names: `[]`, Descriptions: `[]`, Pictures: pics}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, disk := newTestService(t)
			ctx := context.Background()
			item := addTestItem(t, svc)

			_, err := svc.EditItem(ctx, item.ID, tt.in(t))
			require.ErrorIs(t, err, model.ErrInvalidInput)

			got, err := svc.GetItem(ctx, item.ID)
			require.NoError(t, err)
			require.Equal(t, item.Pictures, got.Pictures)
			require.Equal(t, item.Names, got.Names)
			require.Len(t, storedFiles(t, disk), 1)
		})
	}
}

func TestEditItemUnknownID(t *testing.T) {
	svc, disk := newTestService(t)

	_, err := svc.EditItem(context.Background(), "missing", EditItemInput{
		Names: `[]`, Descriptions: `[]`, Pictures: []Picture{picture(t, "pictures")},
	})
	require.ErrorIs(t, err, model.ErrNotFound)
	require.Empty(t, storedFiles(t, disk))
}

// failingUploads fails every save after the first n and records deletes.
type failingUploads struct {
	upload.Store
	n       int
	saved   int
	deleted []string
}

func (f *failingUploads) Save(ctx context.Context, file upload.File) (string, error) {
	if f.saved >= f.n {
		return "", errors.New("disk full")
	}
	f.saved++
	return f.Store.Save(ctx, file)
}

func (f *failingUploads) Delete(ctx context.Context, ref string) error {
	f.deleted = append(f.deleted, ref)
	return f.Store.Delete(ctx, ref)
}

func TestEditItemCleansUpPartialUploads(t *testing.T) {
	svc, disk := newTestService(t)
	ctx := context.Background()
	item := addTestItem(t, svc)

	fu := &failingUploads{Store: disk, n: 2}
	svc.Uploads = fu

	_, err := svc.EditItem(ctx, item.ID, EditItemInput{
		Names:        `[]`,
		Descriptions: `[]`,
		Pictures:     []Picture{picture(t, "pictures"), picture(t, "pictures"), picture(t, "pictures")},
	})
	require.Error(t, err)
	require.Len(t, fu.deleted, 2)
	require.Equal(t, []string{filepath.Base(item.Pictures[0])}, storedFiles(t, disk))

	got, _ := svc.GetItem(ctx, item.ID)
	require.Equal(t, item.Pictures, got.Pictures)
}

func TestDeleteItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	item := addTestItem(t, svc)

	require.NoError(t, svc.DeleteItem(ctx, item.ID))
	_, err := svc.GetItem(ctx, item.ID)
	require.ErrorIs(t, err, model.ErrNotFound)

	// Unknown ids are a successful no-op.
	require.NoError(t, svc.DeleteItem(ctx, item.ID))
	require.NoError(t, svc.DeleteItem(ctx, "never-existed"))
}

func TestParseNames(t *testing.T) {
	names, err := ParseNames(` [{"locale":"en","name":"A"},{"locale":"en","name":"B"}] `)
	require.NoError(t, err)
	// Duplicate locales are allowed.
	require.Len(t, names, 2)

	_, err = ParseNames(`null`)
	require.ErrorIs(t, err, model.ErrInvalidInput)
}
