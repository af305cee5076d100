package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/events"
	"github.com/codingisforpros/wealthtrack/internal/version"
)

const (
	archivePrefix    = "wealthtrack-backup-"
	archiveSuffix    = ".tar.gz"
	archiveTimestamp = "2006-01-02-150405"
	metadataFilename = "backup-metadata.json"

	// minBackupsToKeep bounds rotation: the newest archives survive
	// regardless of age.
	minBackupsToKeep = 3
)

// ObjectStore is the slice of S3 operations the service uses;
// *S3Client satisfies it.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader) error
	List(ctx context.Context, prefix string) ([]types.Object, error)
	Delete(ctx context.Context, key string) error
}

// Vacuumer produces a consistent copy of one database file.
type Vacuumer interface {
	VacuumInto(destPath string) error
}

// Source names one database to include in backups.
type Source struct {
	Name string
	DB   Vacuumer
}

// Metadata describes the contents of one backup archive.
type Metadata struct {
	Timestamp time.Time          `json:"timestamp"`
	Version   string             `json:"version"`
	Databases []DatabaseMetadata `json:"databases"`
}

// DatabaseMetadata describes one database file inside an archive.
type DatabaseMetadata struct {
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// Info summarizes one stored backup.
type Info struct {
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
	AgeHours  int64     `json:"age_hours"`
}

// Service archives the databases to the object store and rotates old
// archives past the retention period.
type Service struct {
	store         ObjectStore
	sources       []Source
	dataDir       string
	retentionDays int
	eventMgr      *events.Manager
	log           zerolog.Logger
}

// NewService creates a new backup service. eventMgr may be nil.
func NewService(store ObjectStore, sources []Source, dataDir string, retentionDays int, eventMgr *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		store:         store,
		sources:       sources,
		dataDir:       dataDir,
		retentionDays: retentionDays,
		eventMgr:      eventMgr,
		log:           log.With().Str("service", "backup").Logger(),
	}
}

// Backup runs one full cycle: archive, upload, rotate.
func (s *Service) Backup(ctx context.Context) error {
	start := time.Now()

	info, err := s.CreateAndUpload(ctx)
	if err != nil {
		return err
	}

	if err := s.Rotate(ctx); err != nil {
		s.log.Error().Err(err).Msg("Backup rotation failed")
	}

	if s.eventMgr != nil {
		s.eventMgr.Emit("backup", &events.BackupCompletedData{
			Archive:   info.Filename,
			SizeBytes: info.SizeBytes,
			Databases: len(s.sources),
		})
	}

	s.log.Info().
		Dur("duration_ms", time.Since(start)).
		Str("archive", info.Filename).
		Int64("size_bytes", info.SizeBytes).
		Msg("Backup completed")

	return nil
}

// CreateAndUpload snapshots every database into a staging directory,
// bundles them with a metadata file into a tar.gz, and uploads it.
func (s *Service) CreateAndUpload(ctx context.Context) (*Info, error) {
	stagingDir := filepath.Join(s.dataDir, "backup-staging")
	if err := os.MkdirAll(stagingDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	now := time.Now().UTC()
	metadata := Metadata{
		Timestamp: now,
		Version:   version.Version,
		Databases: make([]DatabaseMetadata, 0, len(s.sources)),
	}

	filenames := make([]string, 0, len(s.sources)+1)
	for _, src := range s.sources {
		filename := src.Name + ".db"
		dbPath := filepath.Join(stagingDir, filename)

		if err := src.DB.VacuumInto(dbPath); err != nil {
			return nil, fmt.Errorf("failed to snapshot %s: %w", src.Name, err)
		}

		info, err := os.Stat(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s snapshot: %w", src.Name, err)
		}

		checksum, err := checksumFile(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to checksum %s snapshot: %w", src.Name, err)
		}

		metadata.Databases = append(metadata.Databases, DatabaseMetadata{
			Name:      src.Name,
			Filename:  filename,
			SizeBytes: info.Size(),
			Checksum:  checksum,
		})
		filenames = append(filenames, filename)
	}

	metadataPath := filepath.Join(stagingDir, metadataFilename)
	if err := writeMetadata(metadataPath, metadata); err != nil {
		return nil, fmt.Errorf("failed to write metadata: %w", err)
	}
	filenames = append(filenames, metadataFilename)

	archiveName := archivePrefix + now.Format(archiveTimestamp) + archiveSuffix
	archivePath := filepath.Join(stagingDir, archiveName)
	if err := createArchive(archivePath, stagingDir, filenames); err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}

	archiveInfo, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer archiveFile.Close()

	if err := s.store.Upload(ctx, archiveName, archiveFile); err != nil {
		return nil, fmt.Errorf("failed to upload archive: %w", err)
	}

	return &Info{
		Filename:  archiveName,
		Timestamp: now,
		SizeBytes: archiveInfo.Size(),
	}, nil
}

// ListBackups returns the stored archives, newest first.
func (s *Service) ListBackups(ctx context.Context) ([]Info, error) {
	objects, err := s.store.List(ctx, archivePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	now := time.Now().UTC()
	backups := make([]Info, 0, len(objects))
	for _, obj := range objects {
		if obj.Key == nil {
			continue
		}
		filename := *obj.Key
		if !strings.HasPrefix(filename, archivePrefix) || !strings.HasSuffix(filename, archiveSuffix) {
			continue
		}

		timestampStr := strings.TrimSuffix(strings.TrimPrefix(filename, archivePrefix), archiveSuffix)
		timestamp, err := time.Parse(archiveTimestamp, timestampStr)
		if err != nil {
			s.log.Warn().Str("filename", filename).Msg("Unparseable backup filename, skipping")
			continue
		}

		var sizeBytes int64
		if obj.Size != nil {
			sizeBytes = *obj.Size
		}

		backups = append(backups, Info{
			Filename:  filename,
			Timestamp: timestamp,
			SizeBytes: sizeBytes,
			AgeHours:  int64(now.Sub(timestamp).Hours()),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// Rotate deletes archives past the retention period, always keeping the
// newest minBackupsToKeep. Retention 0 keeps everything.
func (s *Service) Rotate(ctx context.Context) error {
	backups, err := s.ListBackups(ctx)
	if err != nil {
		return err
	}

	if len(backups) <= minBackupsToKeep || s.retentionDays <= 0 {
		return nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)
	deleted := 0
	for i, backup := range backups {
		if i < minBackupsToKeep || !backup.Timestamp.Before(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, backup.Filename); err != nil {
			s.log.Error().Err(err).Str("filename", backup.Filename).Msg("Failed to delete old backup")
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.log.Info().Int("deleted", deleted).Msg("Old backups rotated out")
	}
	return nil
}

func checksumFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

func writeMetadata(path string, metadata Metadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}

func createArchive(archivePath, sourceDir string, filenames []string) error {
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer archiveFile.Close()

	gzipWriter := gzip.NewWriter(archiveFile)
	defer gzipWriter.Close()

	tarWriter := tar.NewWriter(gzipWriter)
	defer tarWriter.Close()

	for _, filename := range filenames {
		if err := addFileToArchive(tarWriter, filepath.Join(sourceDir, filename), filename); err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", filename, err)
		}
	}

	return nil
}

func addFileToArchive(tarWriter *tar.Writer, filePath, nameInArchive string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    nameInArchive,
		Size:    info.Size(),
		Mode:    int64(info.Mode()),
		ModTime: info.ModTime(),
	}
	if err := tarWriter.WriteHeader(header); err != nil {
		return err
	}
	_, err = io.Copy(tarWriter, file)
	return err
}
