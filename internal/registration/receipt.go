package registration

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxReceiptSize is the largest accepted proof-of-payment file (10 MB).
const MaxReceiptSize = 10 << 20

// receiptTypes maps accepted file extensions to their MIME types.
// PNG, JPG and PDF only, matching what the backend stores.
var receiptTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".pdf":  "application/pdf",
}

// Receipt is an opaque reference to an uploaded proof-of-payment file.
// It deliberately does not serialize to JSON: local draft storage cannot
// hold the binary, so a reloaded draft comes back without its receipt.
// On the wire it travels as a separate multipart part.
type Receipt struct {
	FileName string
	MIMEType string
	Size     int64
	Path     string
}

// ReceiptTypeError reports a file with an unaccepted extension.
type ReceiptTypeError struct {
	FileName string
}

func (e *ReceiptTypeError) Error() string {
	return fmt.Sprintf("unsupported receipt file type %q: only PNG, JPG and PDF are accepted", filepath.Ext(e.FileName))
}

// ReceiptSizeError reports a file above the size limit.
type ReceiptSizeError struct {
	FileName string
	Size     int64
}

func (e *ReceiptSizeError) Error() string {
	return fmt.Sprintf("receipt file %q is %d bytes, limit is %d (10 MB)", e.FileName, e.Size, int64(MaxReceiptSize))
}

// LoadReceipt validates the file at path and returns a receipt reference.
// Validation happens before acceptance: callers keep any previously
// accepted receipt in place when this returns an error.
func LoadReceipt(path string) (*Receipt, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading receipt file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("receipt path %q is a directory", path)
	}

	name := filepath.Base(path)
	mime, ok := receiptTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return nil, &ReceiptTypeError{FileName: name}
	}
	if info.Size() > MaxReceiptSize {
		return nil, &ReceiptSizeError{FileName: name, Size: info.Size()}
	}

	return &Receipt{
		FileName: name,
		MIMEType: mime,
		Size:     info.Size(),
		Path:     path,
	}, nil
}

// Open returns a reader over the receipt contents for multipart upload.
func (r *Receipt) Open() (io.ReadCloser, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("opening receipt file: %w", err)
	}
	return f, nil
}
