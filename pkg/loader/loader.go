package loader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lintang-b-s/geo-analysis/pkg"
	"github.com/lintang-b-s/geo-analysis/pkg/geo"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

type Format int

const (
	FormatJSON Format = iota
	FormatNDJSON
	FormatOSMPBF
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatNDJSON:
		return "ndjson"
	case FormatOSMPBF:
		return "osm.pbf"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
)

var ErrUnknownFormat = errors.New("unknown entity file format")

// DetectFormat guesses format and compression from the file name, e.g. "case.ndjson.zst".
func DetectFormat(path string) (Format, Compression, error) {
	name := strings.ToLower(filepath.Base(path))

	compression := CompressionNone
	switch {
	case strings.HasSuffix(name, ".gz"):
		compression = CompressionGzip
		name = strings.TrimSuffix(name, ".gz")
	case strings.HasSuffix(name, ".zst"):
		compression = CompressionZstd
		name = strings.TrimSuffix(name, ".zst")
	}

	switch {
	case strings.HasSuffix(name, ".osm.pbf") || strings.HasSuffix(name, ".pbf"):
		if compression != CompressionNone {
			return 0, 0, pkg.WrapErrorf(ErrUnknownFormat, pkg.ErrBadParamInput, "%s: osm pbf files are compressed already", path)
		}
		return FormatOSMPBF, compression, nil
	case strings.HasSuffix(name, ".ndjson") || strings.HasSuffix(name, ".jsonl"):
		return FormatNDJSON, compression, nil
	case strings.HasSuffix(name, ".json"):
		return FormatJSON, compression, nil
	}
	return 0, 0, pkg.WrapErrorf(ErrUnknownFormat, pkg.ErrBadParamInput, "%s", path)
}

// Decompress wraps r with the decoder for c. the returned closer releases decoder resources, not r.
func Decompress(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	}
	return io.NopCloser(r), nil
}

type Options struct {
	OSM OSMOptions
}

// LoadFile reads every entity of the file at path.
func LoadFile(ctx context.Context, path string, opts Options) ([]geo.LocatedEntity, error) {
	format, compression, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	if format == FormatOSMPBF {
		return LoadOSM(ctx, path, opts.OSM)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := Decompress(bufio.NewReader(f), compression)
	if err != nil {
		return nil, pkg.WrapErrorf(err, pkg.ErrBadParamInput, "%s: decompress", path)
	}
	defer r.Close()

	entities, err := ReadEntities(r, format)
	if err != nil {
		return nil, pkg.WrapErrorf(err, pkg.ErrBadParamInput, "%s", path)
	}
	return entities, nil
}

// ReadEntities decodes a JSON document (an array of entities or {"entities": [...]}) or NDJSON, one entity per line.
func ReadEntities(r io.Reader, format Format) ([]geo.LocatedEntity, error) {
	switch format {
	case FormatJSON:
		return readJSON(r)
	case FormatNDJSON:
		return readNDJSON(r)
	}
	return nil, fmt.Errorf("%w: %s can not be read as a stream", ErrUnknownFormat, format)
}

func readJSON(r io.Reader) ([]geo.LocatedEntity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []geo.LocatedEntity{}, nil
	}

	if data[0] == '[' {
		entities := []geo.LocatedEntity{}
		if err := json.Unmarshal(data, &entities); err != nil {
			return nil, err
		}
		return entities, nil
	}

	var doc struct {
		Entities []geo.LocatedEntity `json:"entities"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Entities == nil {
		doc.Entities = []geo.LocatedEntity{}
	}
	return doc.Entities, nil
}

func readNDJSON(r io.Reader) ([]geo.LocatedEntity, error) {
	entities := []geo.LocatedEntity{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var e geo.LocatedEntity
		if err := json.Unmarshal(b, &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entities = append(entities, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entities, nil
}
