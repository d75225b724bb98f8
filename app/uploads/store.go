package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// URLPrefix is the public path uploaded files are served from.
const URLPrefix = "/uploads/"

// Store writes uploaded images into a directory and hands out their public
// references.
type Store struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

// NewStore creates the upload directory if needed.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes, now: time.Now}, nil
}

// Dir returns the directory files are written to.
func (s *Store) Dir() string {
	return s.dir
}

// MaxBytes returns the request size limit for uploads.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save stores src under a name derived from the current time in
// milliseconds plus the lowercased extension of originalName, and returns
// its public reference such as "/uploads/1700000000000.png".
func (s *Store) Save(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	base := strconv.FormatInt(s.now().UnixMilli(), 10)

	var (
		f    *os.File
		name string
		err  error
	)
	for i := 0; i < 100; i++ {
		name = base + ext
		if i > 0 {
			name = fmt.Sprintf("%s-%d%s", base, i, ext)
		}
		f, err = os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if !errors.Is(err, os.ErrExist) {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to create upload: %w", err)
	}

	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return URLPrefix + name, nil
}

// SaveFromRequest stores the file in the multipart field, if any. It returns
// "" when the request carries no file. The multipart form must already be
// parsed.
func (s *Store) SaveFromRequest(r *http.Request, field string) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	if header.Size == 0 && header.Filename == "" {
		return "", nil
	}
	return s.Save(file, header.Filename)
}

// Remove deletes the file behind a reference returned by Save. References
// outside the upload prefix are ignored.
func (s *Store) Remove(ref string) error {
	if !strings.HasPrefix(ref, URLPrefix) {
		return nil
	}
	name := path.Base(ref)
	if name == "." || name == "/" || name == ".." {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Handler serves stored files under URLPrefix. Responses are sandboxed and
// never sniffed; anything that is not a raster image is sent as a download.
func (s *Store) Handler() http.Handler {
	files := http.StripPrefix(URLPrefix, http.FileServer(http.Dir(s.dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", "sandbox")
		if !isInlineImage(path.Ext(r.URL.Path)) {
			h.Set("Content-Disposition", "attachment")
		}
		files.ServeHTTP(w, r)
	})
}

func isInlineImage(ext string) bool {
	ctype := mime.TypeByExtension(strings.ToLower(ext))
	return strings.HasPrefix(ctype, "image/") && !strings.HasPrefix(ctype, "image/svg")
}
