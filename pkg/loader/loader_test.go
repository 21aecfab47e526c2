package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lintang-b-s/geo-analysis/pkg"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ndjsonEntities = `{"key":"kraton","lat":-7.5773,"lng":110.8277,"date":"2024-03-01","type":"place"}

{"key":"balapan","lat":-7.5567,"lng":110.8212,"connections":[{"key":"kraton","relation":"seen"}]}
`

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path        string
		format      Format
		compression Compression
		wantErr     bool
	}{
		{"case.json", FormatJSON, CompressionNone, false},
		{"dir/CASE.JSON.GZ", FormatJSON, CompressionGzip, false},
		{"case.ndjson.zst", FormatNDJSON, CompressionZstd, false},
		{"case.jsonl", FormatNDJSON, CompressionNone, false},
		{"central-java.osm.pbf", FormatOSMPBF, CompressionNone, false},
		{"central-java.osm.pbf.gz", 0, 0, true},
		{"case.csv", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format, compression, err := DetectFormat(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownFormat))
				assert.True(t, errors.Is(pkg.ErrorCode(err), pkg.ErrBadParamInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, tt.compression, compression)
		})
	}
}

func TestReadEntities(t *testing.T) {
	t.Run("json array", func(t *testing.T) {
		entities, err := ReadEntities(strings.NewReader(`[{"key":"a","lat":1,"lng":2,"date":"2024-01-01"}]`), FormatJSON)
		require.NoError(t, err)
		require.Len(t, entities, 1)
		assert.Equal(t, "a", entities[0].Key)
		assert.Equal(t, 2.0, entities[0].Lng)
		assert.Equal(t, "2024-01-01", entities[0].Date)
	})

	t.Run("json document", func(t *testing.T) {
		entities, err := ReadEntities(strings.NewReader(`{"entities":[{"key":"a","lat":1,"lng":2},{"key":"b","lat":3,"lng":4}]}`), FormatJSON)
		require.NoError(t, err)
		assert.Len(t, entities, 2)
	})

	t.Run("empty json", func(t *testing.T) {
		entities, err := ReadEntities(strings.NewReader("  \n"), FormatJSON)
		require.NoError(t, err)
		assert.NotNil(t, entities)
		assert.Empty(t, entities)
	})

	t.Run("ndjson skips blank lines", func(t *testing.T) {
		entities, err := ReadEntities(strings.NewReader(ndjsonEntities), FormatNDJSON)
		require.NoError(t, err)
		require.Len(t, entities, 2)
		assert.Equal(t, "balapan", entities[1].Key)
		require.Len(t, entities[1].Connections, 1)
		assert.Equal(t, "kraton", entities[1].Connections[0].Key)
	})

	t.Run("ndjson reports the bad line", func(t *testing.T) {
		_, err := ReadEntities(strings.NewReader("{\"key\":\"a\"}\n{oops\n"), FormatNDJSON)
		assert.ErrorContains(t, err, "line 2")
	})

	t.Run("pbf is not a stream format", func(t *testing.T) {
		_, err := ReadEntities(strings.NewReader(""), FormatOSMPBF)
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})
}

func TestLoadFileCompressed(t *testing.T) {
	dir := t.TempDir()

	gzPath := filepath.Join(dir, "case.ndjson.gz")
	gzFile, err := os.Create(gzPath)
	require.NoError(t, err)
	gw := gzip.NewWriter(gzFile)
	_, err = gw.Write([]byte(ndjsonEntities))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, gzFile.Close())

	zstPath := filepath.Join(dir, "case.ndjson.zst")
	zstFile, err := os.Create(zstPath)
	require.NoError(t, err)
	zw, err := zstd.NewWriter(zstFile)
	require.NoError(t, err)
	_, err = zw.Write([]byte(ndjsonEntities))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, zstFile.Close())

	for _, path := range []string{gzPath, zstPath} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			entities, err := LoadFile(context.Background(), path, Options{})
			require.NoError(t, err)
			require.Len(t, entities, 2)
			assert.Equal(t, "kraton", entities[0].Key)
		})
	}

	t.Run("not actually gzip", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json.gz")
		require.NoError(t, os.WriteFile(bad, []byte(`[]`), 0600))
		_, err := LoadFile(context.Background(), bad, Options{})
		require.Error(t, err)
		assert.True(t, errors.Is(pkg.ErrorCode(err), pkg.ErrBadParamInput))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(context.Background(), filepath.Join(dir, "nope.json"), Options{})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
