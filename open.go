package epiquark

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/epiquark/table"
	"github.com/carbocation/pfx"
)

// ExpandHome expands a leading ~ to the current user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	usr, err := user.Current()
	if err != nil {
		return path
	}

	return filepath.Join(usr.HomeDir, strings.TrimPrefix(path, "~"))
}

// ReadAll returns the raw bytes at path. Paths starting with gs:// are read
// from Google Storage through client, which must then be non-nil.
func ReadAll(ctx context.Context, path string, client *storage.Client) ([]byte, error) {
	if strings.HasPrefix(path, "gs://") {
		if client == nil {
			return nil, pfx.Err(fmt.Errorf("%s: a Google Storage client is required", path))
		}

		// Detect the bucket and the path to the actual file
		pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
		if len(pathParts) != 2 {
			return nil, pfx.Err(fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts))
		}

		rdr, err := client.Bucket(pathParts[0]).Object(pathParts[1]).NewReader(ctx)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
		}
		defer rdr.Close()

		return io.ReadAll(rdr)
	}

	b, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		return nil, pfx.Err(err)
	}

	return b, nil
}

// ParseTable decodes a possibly compressed, delimited long-format table.
func ParseTable(raw []byte, labelColumn string) (*table.Table, error) {
	r, err := MaybeDecompress(bytes.NewReader(raw))
	if err != nil {
		return nil, pfx.Err(err)
	}

	data, err := io.ReadAll(newQuoteFixReader(r))
	if err != nil {
		return nil, pfx.Err(err)
	}

	sample := data
	if len(sample) > 1<<16 {
		sample = sample[:1<<16]
	}

	return table.ReadCSV(bytes.NewReader(data), DetermineDelimiter(sample), labelColumn)
}

// OpenTable reads the table at a local or gs:// path.
func OpenTable(ctx context.Context, path, labelColumn string, client *storage.Client) (*table.Table, error) {
	raw, err := ReadAll(ctx, path, client)
	if err != nil {
		return nil, err
	}

	t, err := ParseTable(raw, labelColumn)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return t, nil
}

// WriteTable writes a table as comma-delimited text.
func WriteTable(path string, t *table.Table) error {
	f, err := os.Create(ExpandHome(path))
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	if err := table.WriteCSV(f, t); err != nil {
		return pfx.Err(err)
	}

	return f.Close()
}
