// Package fs provides file-based persistence for the vector index.
package fs

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/apiguard/apiguard"
)

// Index file layout, little-endian:
//
//	magic     [4]byte  "AGIX"
//	version   uint32
//	fprint    uint64
//	dim       uint32
//	count     uint32
//	vectors   count*dim float32
var indexMagic = [4]byte{'A', 'G', 'I', 'X'}

const indexVersion uint32 = 1

// Ensure IndexStore implements apiguard.IndexStore at compile time.
var _ apiguard.IndexStore = (*IndexStore)(nil)

// IndexStore persists corpus embeddings as a single binary file.
// Saves are atomic: the blob is written to a temporary file in the same
// directory and renamed over the final path, so a crashed save never leaves
// a half-written index behind.
type IndexStore struct {
	path string
}

// NewIndexStore creates an IndexStore that persists to the given file path.
func NewIndexStore(path string) *IndexStore {
	return &IndexStore{path: path}
}

// Save persists the vectors under the given fingerprint.
func (s *IndexStore) Save(ctx context.Context, fingerprint uint64, vectors [][]float32) error {
	if len(vectors) == 0 {
		return apiguard.Errorf(apiguard.EEMPTYCORPUS, "refusing to persist empty index")
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return apiguard.Errorf(apiguard.EINVALID, "vector %d has dimension %d, want %d", i, len(v), dim)
		}
	}

	var buf bytes.Buffer
	buf.Write(indexMagic[:])
	writeUint32(&buf, indexVersion)
	writeUint64(&buf, fingerprint)
	writeUint32(&buf, uint32(dim))
	writeUint32(&buf, uint32(len(vectors)))
	for _, v := range vectors {
		for _, f := range v {
			writeUint32(&buf, math.Float32bits(f))
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Load returns the persisted vectors.
// Returns ENOTFOUND if no index has been persisted and ESTALEINDEX if the
// stored fingerprint differs from the given one.
func (s *IndexStore) Load(ctx context.Context, fingerprint uint64) ([][]float32, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, apiguard.Errorf(apiguard.ENOTFOUND, "no persisted index at %s", s.path)
	}
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(data)

	var magic [4]byte
	if _, err := r.Read(magic[:]); err != nil || magic != indexMagic {
		return nil, apiguard.Errorf(apiguard.EINVALID, "%s is not an index file", s.path)
	}
	version, err := readUint32(r)
	if err != nil {
		return nil, truncatedErr(s.path)
	}
	if version != indexVersion {
		return nil, apiguard.Errorf(apiguard.EINVALID, "unsupported index version %d", version)
	}
	stored, err := readUint64(r)
	if err != nil {
		return nil, truncatedErr(s.path)
	}
	if stored != fingerprint {
		return nil, apiguard.Errorf(apiguard.ESTALEINDEX,
			"persisted index fingerprint %x does not match corpus fingerprint %x; rebuild the index",
			stored, fingerprint)
	}

	dim, err := readUint32(r)
	if err != nil {
		return nil, truncatedErr(s.path)
	}
	count, err := readUint32(r)
	if err != nil {
		return nil, truncatedErr(s.path)
	}
	if int64(r.Len()) != int64(dim)*int64(count)*4 {
		return nil, truncatedErr(s.path)
	}

	vectors := make([][]float32, count)
	for i := range vectors {
		v := make([]float32, dim)
		for j := range v {
			bits, err := readUint32(r)
			if err != nil {
				return nil, truncatedErr(s.path)
			}
			v[j] = math.Float32frombits(bits)
		}
		vectors[i] = v
	}

	return vectors, nil
}

func truncatedErr(path string) error {
	return apiguard.Errorf(apiguard.EINVALID, "index file %s is truncated or corrupt", path)
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readUint64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
