package archive

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/snapsort/internal/cluster"
	"github.com/fyrsmithlabs/snapsort/internal/photo"
)

func writeMember(t *testing.T, dir, name, content string) photo.Record {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return photo.Record{Path: path, Taken: photo.Known(0)}
}

func readZip(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	members := map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		members[f.Name] = string(data)
	}
	return members
}

func TestPackage_OneArchivePerCluster(t *testing.T) {
	dir := t.TempDir()
	clusters := []cluster.Cluster{
		{Records: []photo.Record{
			writeMember(t, dir, "first.jpg", "one"),
			writeMember(t, dir, "second.jpg", "two"),
		}},
		{Records: []photo.Record{
			writeMember(t, dir, "third.jpg", "three"),
		}},
	}

	require.NoError(t, NewPackager(nil).Package(clusters, dir))

	outDir := filepath.Join(dir, PackagedDirName)

	got := readZip(t, filepath.Join(outDir, "first.jpg.zip"))
	assert.Equal(t, map[string]string{"first.jpg": "one", "second.jpg": "two"}, got)

	got = readZip(t, filepath.Join(outDir, "third.jpg.zip"))
	assert.Equal(t, map[string]string{"third.jpg": "three"}, got)
}

// Archives are named after the cluster anchor and store members by basename.
func TestPackage_MembersStoredByBasename(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "deep")
	require.NoError(t, os.Mkdir(sub, 0o755))

	clusters := []cluster.Cluster{
		{Records: []photo.Record{writeMember(t, sub, "nested.jpg", "data")}},
	}
	require.NoError(t, NewPackager(nil).Package(clusters, dir))

	got := readZip(t, filepath.Join(dir, PackagedDirName, "nested.jpg.zip"))
	assert.Equal(t, map[string]string{"nested.jpg": "data"}, got)
}

func TestPackage_UsesDeflate(t *testing.T) {
	dir := t.TempDir()
	clusters := []cluster.Cluster{
		{Records: []photo.Record{writeMember(t, dir, "a.jpg", "compress me please, repeatedly repeatedly repeatedly")}},
	}
	require.NoError(t, NewPackager(nil).Package(clusters, dir))

	r, err := zip.OpenReader(filepath.Join(dir, PackagedDirName, "a.jpg.zip"))
	require.NoError(t, err)
	defer r.Close()

	require.Len(t, r.File, 1)
	assert.Equal(t, zip.Deflate, r.File[0].Method)
}

func TestPackage_MissingMemberFails(t *testing.T) {
	dir := t.TempDir()
	clusters := []cluster.Cluster{
		{Records: []photo.Record{{Path: filepath.Join(dir, "gone.jpg"), Taken: photo.Unreadable()}}},
	}
	require.Error(t, NewPackager(nil).Package(clusters, dir))
}

func TestPackage_NoClusters(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewPackager(nil).Package(nil, dir))

	_, err := os.Stat(filepath.Join(dir, PackagedDirName))
	assert.True(t, os.IsNotExist(err), "packaged dir should not be created for empty input")
}
