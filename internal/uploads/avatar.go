package uploads

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/stockyardhq/stockyard-backend/pkg/config"
	pkgerrors "github.com/stockyardhq/stockyard-backend/pkg/errors"
)

// allowedImageExts whitelists avatar file extensions.
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// allowedImageMIMEs whitelists the sniffed content types. The extension
// alone is not trusted.
var allowedImageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

type avatarStore interface {
	UpdateAvatarPath(ctx context.Context, id uuid.UUID, path string) error
}

// AvatarService stores user avatar images on local disk.
type AvatarService struct {
	users    avatarStore
	dir      string
	maxBytes int64
}

// NewAvatarService constructs the avatar upload service and ensures the
// upload directory exists.
func NewAvatarService(users avatarStore, cfg config.UploadsConfig) (*AvatarService, error) {
	if users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("uploads directory required")
	}
	if err := os.MkdirAll(filepath.Join(cfg.Dir, "avatars"), 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &AvatarService{users: users, dir: cfg.Dir, maxBytes: cfg.MaxUploadBytes()}, nil
}

// SaveAvatar validates and stores the uploaded image, then records the
// relative path on the user row. It returns the stored path.
func (s *AvatarService) SaveAvatar(ctx context.Context, userID uuid.UUID, file multipart.File, header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "no file provided")
	}
	if s.maxBytes > 0 && header.Size > s.maxBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %d KB limit", s.maxBytes/1024))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "only jpg, jpeg, png and gif files are accepted")
	}

	data, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %d KB limit", s.maxBytes/1024))
	}

	if detected := mimetype.Detect(data); !allowedImageMIMEs[detected.String()] {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "file content is not a supported image")
	}

	relPath := filepath.Join("avatars", userID.String()+ext)
	fullPath := filepath.Join(s.dir, relPath)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write avatar file")
	}

	if err := s.users.UpdateAvatarPath(ctx, userID, relPath); err != nil {
		_ = os.Remove(fullPath)
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update avatar path")
	}
	return relPath, nil
}
