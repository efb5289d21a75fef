package simfs

import (
	"context"

	"github.com/samuli/blockdive/internal/model"
)

// Service adapts a FileSystem to the context-aware backend contract
// the controller consumes. The simulator is in-process, so the only
// failure mode is a cancelled context.
type Service struct {
	fs *FileSystem
}

// NewService wraps a filesystem as a backend service
func NewService(fs *FileSystem) *Service {
	return &Service{fs: fs}
}

// FS exposes the underlying filesystem for persistence
func (s *Service) FS() *FileSystem {
	return s.fs
}

func (s *Service) BlockInfo(ctx context.Context) (model.BlockInfo, error) {
	if err := ctx.Err(); err != nil {
		return model.BlockInfo{}, err
	}
	return s.fs.BlockInfoSnapshot(), nil
}

func (s *Service) FileBlocks(ctx context.Context, name string) (*model.FileBlocks, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	fb, msg := s.fs.FileBlocks(name)
	return fb, msg, nil
}

func (s *Service) SetStrategy(ctx context.Context, t model.AllocationType) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.fs.SetStrategy(t)
}

func (s *Service) ListDir(ctx context.Context) ([]model.FileEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.fs.ListDir(), nil
}

func (s *Service) Pwd(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.fs.Pwd(), nil
}

func (s *Service) Exec(ctx context.Context, line string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.fs.Exec(line), nil
}
