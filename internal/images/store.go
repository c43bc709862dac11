// Package images stores uploaded recipe and profile pictures on disk.
// Files are named <RFC3339 timestamp>-<original filename> under two
// prefixes, recipeImages and profileImages, and the stored path is what
// the documents reference and the static file route serves.
package images

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"
)

const (
	recipeDir  = "recipeImages"
	profileDir = "profileImages"

	profileWidth  = 320
	profileHeight = 240
)

type Store struct {
	BaseDir string
}

func NewStore(baseDir string) (*Store, error) {
	for _, sub := range []string{recipeDir, profileDir} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o755); err != nil {
			return nil, err
		}
	}
	return &Store{BaseDir: baseDir}, nil
}

// AllowedType mirrors the upload filter: jpg, jpeg and png only.
func AllowedType(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func (s *Store) stamp(sub, originalName string) (string, string) {
	name := fmt.Sprintf("%s-%s", time.Now().UTC().Format(time.RFC3339), originalName)
	full := filepath.Join(s.BaseDir, sub, name)
	return full, filepath.ToSlash(full)
}

// SaveRecipe stores a recipe image unmodified.
func (s *Store) SaveRecipe(r io.Reader, originalName string) (string, error) {
	full, ref := s.stamp(recipeDir, originalName)
	out, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		os.Remove(full)
		return "", err
	}
	return ref, nil
}

// SaveProfile scales a profile image down to 320x240 and stores it as
// jpeg, whatever the input format was.
func (s *Store) SaveProfile(r io.Reader, originalName string) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", err
	}

	dst := image.NewRGBA(image.Rect(0, 0, profileWidth, profileHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	full, ref := s.stamp(profileDir, originalName)
	out, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if err := jpeg.Encode(out, dst, &jpeg.Options{Quality: 75}); err != nil {
		os.Remove(full)
		return "", err
	}
	return ref, nil
}

// Remove deletes a previously stored image. Callers treat failure as
// non-fatal and log it; a missing file is not an error.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(filepath.FromSlash(path))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
