package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotGLB is returned when binary input lacks the glTF container header.
	ErrNotGLB = errors.New("not a binary glTF container")

	errVersion     = errors.New("unsupported glTF version")
	errNoJSONChunk = errors.New("GLB has no JSON chunk")
	errSparse      = errors.New("sparse accessors are not supported")
)

// document is a parsed glTF file with its buffers resolved.
type document struct {
	gltfDocument
	baseDir string
}

// parseGLB decodes a binary glTF container: a 12 byte header followed by
// length-prefixed JSON and BIN chunks.
func parseGLB(data []byte, baseDir string) (*document, error) {
	if len(data) < 12 || binary.LittleEndian.Uint32(data[0:4]) != glbMagic {
		return nil, ErrNotGLB
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != glbVersion {
		return nil, fmt.Errorf("GLB version %d: %w", v, errVersion)
	}

	var jsonChunk, binChunk []byte
	r := bytes.NewReader(data[12:])
	for {
		var hdr struct{ Length, Type uint32 }
		if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read chunk header: %w", err)
		}
		chunk := make([]byte, hdr.Length)
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, fmt.Errorf("read chunk: %w", err)
		}
		switch hdr.Type {
		case glbChunkJSON:
			jsonChunk = chunk
		case glbChunkBIN:
			binChunk = chunk
		}
	}
	if jsonChunk == nil {
		return nil, errNoJSONChunk
	}
	return decodeDocument(jsonChunk, binChunk, baseDir)
}

// parseGLTF decodes a JSON glTF file whose buffers are data URIs or files next to it.
func parseGLTF(data []byte, baseDir string) (*document, error) {
	return decodeDocument(data, nil, baseDir)
}

func decodeDocument(jsonData, bin []byte, baseDir string) (*document, error) {
	doc := &document{baseDir: baseDir}
	if err := json.Unmarshal(jsonData, &doc.gltfDocument); err != nil {
		return nil, fmt.Errorf("decode glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, fmt.Errorf("%q: %w", doc.Asset.Version, errVersion)
	}

	for i := range doc.Buffers {
		buf := &doc.Buffers[i]
		switch {
		case buf.URI == "" && i == 0 && bin != nil:
			buf.data = bin
		case buf.URI == "":
			return nil, fmt.Errorf("buffer %d has no data", i)
		default:
			data, err := doc.readURI(buf.URI)
			if err != nil {
				return nil, fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.data = data
		}
		if len(buf.data) < buf.ByteLength {
			return nil, fmt.Errorf("buffer %d holds %d bytes, expected %d", i, len(buf.data), buf.ByteLength)
		}
	}
	return doc, nil
}

func (d *document) readURI(uri string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(uri, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found || !strings.Contains(header, "base64") {
			return nil, fmt.Errorf("unsupported data URI")
		}
		return base64.StdEncoding.DecodeString(payload)
	}
	return os.ReadFile(filepath.Join(d.baseDir, filepath.FromSlash(uri)))
}

func componentCount(accessorType string) int {
	switch accessorType {
	case "SCALAR":
		return 1
	case "VEC2":
		return 2
	case "VEC3":
		return 3
	case "VEC4", "MAT2":
		return 4
	case "MAT3":
		return 9
	case "MAT4":
		return 16
	}
	return 0
}

func componentSize(componentType int) int {
	switch componentType {
	case componentByte, componentUnsignedByte:
		return 1
	case componentShort, componentUnsignedShort:
		return 2
	case componentUnsignedInt, componentFloat:
		return 4
	}
	return 0
}

// elements walks an accessor and calls fn with the raw little-endian bytes of
// each component, honoring the buffer view's stride.
func (d *document) elements(index int, fn func(elem, comp int, raw []byte)) (*gltfAccessor, error) {
	if index < 0 || index >= len(d.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", index)
	}
	acc := &d.Accessors[index]
	if acc.Sparse != nil {
		return nil, errSparse
	}
	if acc.BufferView == nil {
		return nil, fmt.Errorf("accessor %d has no buffer view", index)
	}
	bv := &d.BufferViews[*acc.BufferView]
	data := d.Buffers[bv.Buffer].data

	n := componentCount(acc.Type)
	size := componentSize(acc.ComponentType)
	if n == 0 || size == 0 {
		return nil, fmt.Errorf("accessor %d: unsupported layout %s/%d", index, acc.Type, acc.ComponentType)
	}
	stride := n * size
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	base := bv.ByteOffset + acc.ByteOffset
	end := base + (acc.Count-1)*stride + n*size
	if acc.Count > 0 && end > len(data) {
		return nil, fmt.Errorf("accessor %d overruns its buffer", index)
	}

	for e := 0; e < acc.Count; e++ {
		off := base + e*stride
		for c := 0; c < n; c++ {
			fn(e, c, data[off+c*size:off+(c+1)*size])
		}
	}
	return acc, nil
}

// readFloats decodes an accessor into a flat float slice, normalizing
// integer components when the accessor says so.
func (d *document) readFloats(index int) ([]float32, int, error) {
	var out []float32
	var width int
	acc, err := d.elements(index, func(elem, comp int, raw []byte) {
		if out == nil {
			width = componentCount(d.Accessors[index].Type)
			out = make([]float32, d.Accessors[index].Count*width)
		}
		out[elem*width+comp] = decodeFloat(raw, d.Accessors[index].ComponentType, d.Accessors[index].Normalized)
	})
	if err != nil {
		return nil, 0, err
	}
	return out, componentCount(acc.Type), nil
}

// readUints decodes an integer accessor, used for indices and joint ids.
func (d *document) readUints(index int) ([]uint32, int, error) {
	var out []uint32
	acc, err := d.elements(index, func(elem, comp int, raw []byte) {
		w := componentCount(d.Accessors[index].Type)
		if out == nil {
			out = make([]uint32, d.Accessors[index].Count*w)
		}
		switch len(raw) {
		case 1:
			out[elem*w+comp] = uint32(raw[0])
		case 2:
			out[elem*w+comp] = uint32(binary.LittleEndian.Uint16(raw))
		default:
			out[elem*w+comp] = binary.LittleEndian.Uint32(raw)
		}
	})
	if err != nil {
		return nil, 0, err
	}
	return out, componentCount(acc.Type), nil
}

func decodeFloat(raw []byte, componentType int, normalized bool) float32 {
	switch componentType {
	case componentFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(raw))
	case componentByte:
		v := float32(int8(raw[0]))
		if normalized {
			return max(v/127, -1)
		}
		return v
	case componentUnsignedByte:
		v := float32(raw[0])
		if normalized {
			return v / 255
		}
		return v
	case componentShort:
		v := float32(int16(binary.LittleEndian.Uint16(raw)))
		if normalized {
			return max(v/32767, -1)
		}
		return v
	case componentUnsignedShort:
		v := float32(binary.LittleEndian.Uint16(raw))
		if normalized {
			return v / 65535
		}
		return v
	case componentUnsignedInt:
		return float32(binary.LittleEndian.Uint32(raw))
	}
	return 0
}
