package testsupport

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// WriteImage writes a width x height image to path, encoded according to the
// path's extension (.png, .jpg/.jpeg, .gif, .webp). WebP files carry only a
// lossless header, which is all a dimension probe reads.
func WriteImage(t testing.TB, fsys afero.Fs, path string, width, height int) {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.NRGBA{R: 0xff, A: 0xff})

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(&buf, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 50})
	case ".gif":
		err = gif.Encode(&buf, img, nil)
	case ".webp":
		buf.Write(webpHeader(width, height))
	default:
		t.Fatalf("unsupported test image extension for %s", path)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := afero.WriteFile(fsys, path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// webpHeader builds a RIFF container holding a single VP8L chunk header.
func webpHeader(width, height int) []byte {
	bits := uint32(width-1)&0x3fff | (uint32(height-1)&0x3fff)<<14
	chunk := make([]byte, 5)
	chunk[0] = 0x2f
	binary.LittleEndian.PutUint32(chunk[1:], bits)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	// "WEBP" + chunk header + 5 payload bytes + 1 pad byte
	_ = binary.Write(&buf, binary.LittleEndian, uint32(4+8+len(chunk)+1))
	buf.WriteString("WEBP")
	buf.WriteString("VP8L")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(chunk)))
	buf.Write(chunk)
	buf.WriteByte(0)
	return buf.Bytes()
}
