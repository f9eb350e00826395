package planfile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/gasplan/pkg/plan"
)

// Format identifies a document encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
	FormatBundle  Format = "bundle"
)

// Archive members of a bundle.
const (
	bundlePlan = "plan.mpk"
	bundleBOM  = "bom.yaml"
)

// FormatFor picks a format from a file extension: .json, .mpk or .gplan.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".mpk", ".msgpack":
		return FormatMsgpack, nil
	case ".gplan", ".zip":
		return FormatBundle, nil
	}
	return "", fmt.Errorf("unknown plan file type: %s", path)
}

// WriteFile writes a document in the format selected by the file extension.
// The router is used for the bill of materials stored in bundles.
func WriteFile(path string, d *plan.Document, r plan.Router) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := Write(file, format, d, r); err != nil {
		return err
	}
	return file.Close()
}

// Write writes a document to w in the given format.
func Write(w io.Writer, format Format, d *plan.Document, r plan.Router) error {
	var data []byte
	var err error
	switch format {
	case FormatJSON:
		data, err = ToJSON(d, true)
	case FormatMsgpack:
		data, err = ToMsgpack(d)
	case FormatBundle:
		return WriteBundle(w, d, r)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadFile reads a document, choosing the decoder from the file extension.
func ReadFile(path string, opts ...plan.Option) (*plan.Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Read(data, format, opts...)
}

// Read decodes a document in the given format.
func Read(data []byte, format Format, opts ...plan.Option) (*plan.Document, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(data, opts...)
	case FormatMsgpack:
		return ParseMsgpack(data, opts...)
	case FormatBundle:
		return ReadBundleBytes(data, opts...)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// WriteBundle writes a zip archive holding the document as MessagePack and
// a YAML bill of materials for people reading the archive by hand. The BOM
// is ignored when reading.
func WriteBundle(w io.Writer, d *plan.Document, r plan.Router) error {
	zw := zip.NewWriter(w)

	data, err := ToMsgpack(d)
	if err != nil {
		return err
	}
	pw, err := zw.Create(bundlePlan)
	if err != nil {
		return err
	}
	if _, err := pw.Write(data); err != nil {
		return err
	}

	bom, err := yaml.Marshal(plan.Aggregate(d, r))
	if err != nil {
		return err
	}
	bw, err := zw.Create(bundleBOM)
	if err != nil {
		return err
	}
	if _, err := bw.Write(bom); err != nil {
		return err
	}

	return zw.Close()
}

// ReadBundle reads a document from a zip archive written by WriteBundle.
func ReadBundle(r io.ReaderAt, size int64, opts ...plan.Option) (*plan.Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}

	for _, f := range zr.File {
		if f.Name != bundlePlan {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		return ParseMsgpack(data, opts...)
	}
	return nil, fmt.Errorf("%w: %s not found in archive", plan.ErrCorruptDocument, bundlePlan)
}

// ReadBundleBytes reads a bundle from bytes.
func ReadBundleBytes(data []byte, opts ...plan.Option) (*plan.Document, error) {
	return ReadBundle(bytes.NewReader(data), int64(len(data)), opts...)
}

// ReadBundleBOM returns the bill of materials stored in a bundle.
func ReadBundleBOM(data []byte) (plan.BOM, error) {
	var bom plan.BOM
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return bom, err
	}
	rc, err := zr.Open(bundleBOM)
	if err != nil {
		return bom, err
	}
	defer rc.Close()
	err = yaml.NewDecoder(rc).Decode(&bom)
	return bom, err
}
