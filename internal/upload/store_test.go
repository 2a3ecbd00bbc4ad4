package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiskStore_Save(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://localhost:8080/uploads/")
	assert.NoError(t, err)

	url, err := store.Save("product", "photo.PNG", strings.NewReader("fake image"))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/product/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
}

func TestDiskStore_RandomizesNames(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "http://localhost:8080/uploads")
	assert.NoError(t, err)

	first, err := store.Save("user", "avatar.jpg", strings.NewReader("a"))
	assert.NoError(t, err)
	second, err := store.Save("user", "avatar.jpg", strings.NewReader("b"))
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)

	entries, err := os.ReadDir(filepath.Join(dir, "user"))
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestDiskStore_RejectsUnsupportedTypes(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://localhost:8080/uploads")
	assert.NoError(t, err)

	for _, name := range []string{"script.sh", "page.html", "archive.zip", "noextension"} {
		_, err := store.Save("misc", name, strings.NewReader("payload"))
		assert.ErrorIs(t, err, ErrUnsupportedType)
	}
}
