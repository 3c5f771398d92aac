package store

import (
	"github.com/MrSnakeDoc/linkvault/internal/models"
	"github.com/MrSnakeDoc/linkvault/internal/utils"
)

// Snapshot is a document encoded for the mirror.
type Snapshot struct {
	Gzip      []byte
	SHA256Hex string
	Count     int
	SizeBytes int64
}

// BuildSnapshot gzips the canonical serialization of doc. SHA256Hex is over
// the uncompressed bytes so it matches a checksum of the remote file.
func BuildSnapshot(doc models.Document) (Snapshot, error) {
	raw, err := doc.Encode()
	if err != nil {
		return Snapshot{}, err
	}
	gz, err := utils.GzipBytes(raw)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Gzip:      gz,
		SHA256Hex: utils.Sha256Hex(raw),
		Count:     len(doc.URLs),
		SizeBytes: int64(len(gz)),
	}, nil
}
