package service

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"employee/backend/foundation/web"
)

// UploadURLPrefix is the public path stored uploads are served under.
const UploadURLPrefix = "/uploads"

var imageExtensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
	"bmp":  ".bmp",
}

// Uploader stores uploaded images in one directory.
type Uploader struct {
	dir string
}

func NewUploader(dir string) (*Uploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating upload dir")
	}

	return &Uploader{dir: dir}, nil
}

// Dir returns the directory uploads are written to.
func (u Uploader) Dir() string {
	return u.dir
}

// Save writes file under a generated name and returns its public path,
// /uploads/<name>. A nil file is not an error and yields "".
func (u Uploader) Save(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", nil
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, "opening upload")
	}
	defer src.Close()

	// The content decides the type; the client supplied header is not trusted.
	_, format, err := image.DecodeConfig(src)
	ext, known := imageExtensions[format]
	if err != nil || !known {
		return "", web.NewRequestError(
			errors.Errorf("invalid file type %q, expected one of: jpeg, png, gif, webp, bmp", file.Header.Get("Content-Type")),
			http.StatusBadRequest,
		)
	}

	if _, err = src.Seek(0, io.SeekStart); err != nil {
		return "", errors.Wrap(err, "rewinding upload")
	}

	name := uuid.NewString() + ext

	out, err := os.OpenFile(filepath.Join(u.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "creating upload")
	}

	if _, err = io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return "", errors.Wrap(err, "writing upload")
	}

	if err = out.Close(); err != nil {
		return "", errors.Wrap(err, "writing upload")
	}

	return path.Join(UploadURLPrefix, name), nil
}

// Remove deletes the upload behind a public path returned by Save. Paths
// outside the upload prefix and missing files are ignored.
func (u Uploader) Remove(publicPath string) error {
	name := strings.TrimPrefix(publicPath, UploadURLPrefix+"/")
	if name == publicPath || name == "" || strings.ContainsAny(name, `/\`) {
		return nil
	}

	err := os.Remove(filepath.Join(u.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "removing upload")
	}

	return nil
}
