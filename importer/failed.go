package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
)

const (
	CodeMissingColumns = "MISSING_COLUMNS"
	CodeEmptyFile      = "EMPTY_FILE"
	CodeValidation     = "VALIDATION"
	CodeRemote         = "REMOTE"
	CodeTransport      = "TRANSPORT"
)

type ImportError struct {
	Code    string
	Message string
	Context map[string]string
	cause   error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ImportError) Unwrap() error {
	return e.cause
}

// FailedImport is one source row that did not produce a candidate.
type FailedImport struct {
	RowNumber  int
	Email      string
	ErrorCode  string
	FailReason string
	RowData    []string
}

func failedImport(row int, record []string, email string, err error) FailedImport {
	f := FailedImport{RowNumber: row, Email: email, RowData: record, FailReason: err.Error()}
	var ie *ImportError
	if errors.As(err, &ie) {
		f.ErrorCode, f.FailReason = ie.Code, ie.Message
	}
	return f
}

// SaveFailedRecords writes the failed rows, with an extra Error column, to a timestamped
// CSV under dir and returns its path. Nothing is written when there are no failures.
func SaveFailedRecords(dir string, headers []string, failures []FailedImport, now time.Time) (string, error) {
	if len(failures) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create failed imports directory")
	}
	path := filepath.Join(dir, fmt.Sprintf("failed_candidati_%s.csv", now.Format("20060102_150405")))
	file, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create failed imports file")
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(append(append([]string(nil), headers...), "Error")); err != nil {
		return "", errors.Wrap(err, "write headers")
	}
	for _, f := range failures {
		row := make([]string, len(headers), len(headers)+1)
		copy(row, f.RowData)
		if err := w.Write(append(row, f.FailReason)); err != nil {
			return "", errors.Wrapf(err, "write row %d", f.RowNumber)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.Wrap(err, "flush failed imports")
	}
	return path, nil
}
