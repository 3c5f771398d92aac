package utils

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
)

var gzipMagic = []byte{0x1f, 0x8b}

type readCloser struct {
	io.Reader
	io.Closer
}

// MaybeGunzip decompresses src when it starts with the gzip magic and passes
// it through otherwise. Closing the result closes src.
func MaybeGunzip(src io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(src)
	hdr, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if !bytes.Equal(hdr, gzipMagic) {
		return readCloser{Reader: br, Closer: src}, nil
	}
	gr, err := gzip.NewReader(br)
	if err != nil {
		return nil, err
	}
	return readCloser{Reader: gr, Closer: src}, nil
}

// GzipBytes compresses src at the default level.
func GzipBytes(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
