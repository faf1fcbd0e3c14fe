package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"explore-sync.backend/internal/config"
	"explore-sync.backend/pkg/logger"
)

// ObjectStore is the upload destination for published artifacts.
type ObjectStore interface {
	// RemoteChecksum returns the checksum of the currently published
	// artifact, or "" when none is published yet.
	RemoteChecksum(ctx context.Context) (string, error)
	// Put uploads the archive and records its checksum.
	Put(ctx context.Context, archivePath, checksum string) error
}

// Publisher zips the artifact database, checksums it, and uploads the
// archive unless the remote already holds an identical one.
type Publisher struct {
	cfg   config.ArtifactConfig
	store ObjectStore
	now   func() time.Time
}

func NewPublisher(cfg config.ArtifactConfig, store ObjectStore) *Publisher {
	return &Publisher{cfg: cfg, store: store, now: time.Now}
}

// Publish implements the pipeline's artifact step.
func (p *Publisher) Publish(ctx context.Context) (string, bool, error) {
	log := logger.WithContext(ctx)

	checksum, err := FileChecksum(p.cfg.DatabasePath)
	if err != nil {
		return "", false, fmt.Errorf("artifact checksum: %w", err)
	}

	remote, err := p.store.RemoteChecksum(ctx)
	if err != nil {
		return "", false, err
	}
	if remote == checksum && !p.cfg.ForceUpload {
		log.Info("remote artifact already current", zap.String("checksum", checksum))
		return checksum, true, nil
	}

	name := fmt.Sprintf("explore-%s.zip", p.now().UTC().Format("20060102-150405"))
	archivePath := filepath.Join(p.cfg.ArchiveDir, name)
	if err := ZipFile(p.cfg.DatabasePath, archivePath); err != nil {
		return "", false, fmt.Errorf("artifact archive: %w", err)
	}

	if err := p.store.Put(ctx, archivePath, checksum); err != nil {
		return "", false, fmt.Errorf("artifact upload: %w", err)
	}

	log.Info("artifact published",
		zap.String("archive", name),
		zap.String("checksum", checksum))
	return checksum, false, nil
}

// LocalStore publishes into a directory, the deployment mode where a CDN
// serves the upload directory directly.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) RemoteChecksum(ctx context.Context) (string, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, "explore.checksum"))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *LocalStore) Put(ctx context.Context, archivePath, checksum string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, "explore.zip"), data, 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, "explore.checksum"), []byte(checksum+"\n"), 0o644)
}
