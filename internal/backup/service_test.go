package backup

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codingisforpros/wealthtrack/internal/events"
)

// fakeStore keeps uploaded objects in memory.
type fakeStore struct {
	objects map[string][]byte
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(ctx context.Context, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStore) List(ctx context.Context, prefix string) ([]types.Object, error) {
	var out []types.Object
	for key, data := range f.objects {
		out = append(out, types.Object{
			Key:  aws.String(key),
			Size: aws.Int64(int64(len(data))),
		})
	}
	return out, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

// fileVacuumer fakes VACUUM INTO by writing fixed content.
type fileVacuumer struct {
	content []byte
}

func (v *fileVacuumer) VacuumInto(destPath string) error {
	return os.WriteFile(destPath, v.content, 0644)
}

func TestBackupCreatesArchiveAndEmitsEvent(t *testing.T) {
	store := newFakeStore()
	sources := []Source{
		{Name: "wealth", DB: &fileVacuumer{content: []byte("wealth-data")}},
		{Name: "history", DB: &fileVacuumer{content: []byte("history-data")}},
	}

	bus := events.NewBus(zerolog.Nop())
	mgr := events.NewManager(bus, zerolog.Nop())
	var completed *events.BackupCompletedData
	bus.Subscribe(events.BackupCompleted, func(e *events.Event) {
		completed = e.Data.(*events.BackupCompletedData)
	})

	svc := NewService(store, sources, t.TempDir(), 30, mgr, zerolog.Nop())
	require.NoError(t, svc.Backup(context.Background()))

	require.Len(t, store.objects, 1)
	require.NotNil(t, completed)
	assert.Equal(t, 2, completed.Databases)
	assert.Positive(t, completed.SizeBytes)

	// The archive holds both database files plus the metadata file.
	var archive []byte
	for _, data := range store.objects {
		archive = data
	}
	names := tarEntryNames(t, archive)
	assert.ElementsMatch(t, []string{"wealth.db", "history.db", metadataFilename}, names)
}

func TestListBackupsParsesAndSorts(t *testing.T) {
	store := newFakeStore()
	store.objects["wealthtrack-backup-2026-08-01-040000.tar.gz"] = []byte("old")
	store.objects["wealthtrack-backup-2026-08-20-040000.tar.gz"] = []byte("new")
	store.objects["unrelated.txt"] = []byte("skip")

	svc := NewService(store, nil, t.TempDir(), 30, nil, zerolog.Nop())
	backups, err := svc.ListBackups(context.Background())
	require.NoError(t, err)

	require.Len(t, backups, 2)
	assert.Equal(t, "wealthtrack-backup-2026-08-20-040000.tar.gz", backups[0].Filename)
	assert.True(t, backups[0].Timestamp.After(backups[1].Timestamp))
}

func TestRotateKeepsMinimumAndRecent(t *testing.T) {
	store := newFakeStore()
	now := time.Now().UTC()
	// Five archives: three recent, two far past retention.
	for _, age := range []time.Duration{0, 24 * time.Hour, 48 * time.Hour, 100 * 24 * time.Hour, 200 * 24 * time.Hour} {
		name := archivePrefix + now.Add(-age).Format(archiveTimestamp) + archiveSuffix
		store.objects[name] = []byte("x")
	}

	svc := NewService(store, nil, t.TempDir(), 30, nil, zerolog.Nop())
	require.NoError(t, svc.Rotate(context.Background()))

	assert.Len(t, store.objects, 3)
	assert.Len(t, store.deleted, 2)
}

func TestRotateNoopBelowMinimum(t *testing.T) {
	store := newFakeStore()
	old := archivePrefix + time.Now().UTC().AddDate(0, 0, -365).Format(archiveTimestamp) + archiveSuffix
	store.objects[old] = []byte("x")

	svc := NewService(store, nil, t.TempDir(), 30, nil, zerolog.Nop())
	require.NoError(t, svc.Rotate(context.Background()))

	assert.Len(t, store.objects, 1)
	assert.Empty(t, store.deleted)
}

func tarEntryNames(t *testing.T, archive []byte) []string {
	t.Helper()

	gz, err := gzip.NewReader(bytes.NewReader(archive))
	require.NoError(t, err)
	defer gz.Close()

	var names []string
	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, header.Name)
	}
	return names
}
