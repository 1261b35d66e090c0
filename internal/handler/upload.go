package handler

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"
)

// maxUploadSize bounds the multipart form we are willing to parse.
const maxUploadSize = 10 << 20 // 10 MiB

// allowedImageExt is the accepted set of upload extensions.
var allowedImageExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// ImageStore saves uploaded images under a directory that is served back
// at /uploads/.
//
// Saving is fire-and-forget: any failure — missing file, bad extension,
// disk error — is logged and yields an empty URL. An event or celebrity
// is never rejected because its picture didn't stick.
type ImageStore struct {
	dir    string
	logger *slog.Logger
}

func NewImageStore(dir string, logger *slog.Logger) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ImageStore{dir: dir, logger: logger}, nil
}

// SaveFromRequest extracts the named multipart file field and stores it
// under a fresh random name, returning the public URL path ("/uploads/x.png")
// or "" when there is nothing to save or saving failed.
func (s *ImageStore) SaveFromRequest(r *http.Request, field string) string {
	file, header, err := r.FormFile(field)
	if err != nil {
		// No file attached is the common case, not a failure.
		return ""
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExt[ext] {
		s.logger.Warn("rejected upload with disallowed extension",
			slog.String("filename", header.Filename),
		)
		return ""
	}

	name := xid.New().String() + ext
	if err := s.write(file, name); err != nil {
		s.logger.Error("failed to save uploaded image",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()),
		)
		return ""
	}

	return "/uploads/" + name
}

func (s *ImageStore) write(src multipart.File, name string) error {
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// Dir is the directory the file server for /uploads/* should serve.
func (s *ImageStore) Dir() string {
	return s.dir
}
