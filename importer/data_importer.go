// Package importer bulk-creates candidates from a CSV or XLSX file through the admin API.
package importer

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/forms"
	"github.com/nonsonwune/admitere_admin/models"
)

const (
	DefaultWorkerCount = 4
	MaxRetries         = 3
	DefaultRetryDelay  = 500 * time.Millisecond
)

// Columns read from the source file. Parola is optional.
const (
	ColumnNume    = "nume"
	ColumnPrenume = "prenume"
	ColumnEmail   = "email"
	ColumnParola  = "parola"
)

var RequiredColumns = []string{ColumnNume, ColumnPrenume, ColumnEmail}

// ImportConfig holds the configuration for one import run.
type ImportConfig struct {
	SourceFile   string
	WorkerCount  int
	MaxRetries   int
	RetryDelay   time.Duration
	ValidateOnly bool // parse every row but create nothing
}

// ImportResult summarises one run. Failures are ordered by row number.
type ImportResult struct {
	Total    int
	Success  int
	Failures []FailedImport
	Mapping  map[string]string
}

func (r *ImportResult) Failed() int {
	return len(r.Failures)
}

// DataImporter creates candidates row by row.
type DataImporter struct {
	client *apiclient.Client
	config ImportConfig
	logger logrus.FieldLogger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewDataImporter(client *apiclient.Client, config ImportConfig, logger logrus.FieldLogger) *DataImporter {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultWorkerCount
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultRetryDelay
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DataImporter{
		client: client,
		config: config,
		logger: logger.WithField("component", "importer"),
		sleep:  sleepContext,
	}
}

// ImportFile reads config.SourceFile and imports it.
func (d *DataImporter) ImportFile(ctx context.Context) (*ImportResult, error) {
	table, err := ReadFile(d.config.SourceFile)
	if err != nil {
		return nil, err
	}
	return d.Import(ctx, table)
}

// Import maps the table headers and creates one candidate per row. Only header problems
// and cancellation fail the whole run; row problems are reported in the result.
func (d *DataImporter) Import(ctx context.Context, table *Table) (*ImportResult, error) {
	mapping, err := mapColumns(table.Headers, RequiredColumns, []string{ColumnParola})
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Total: len(table.Rows), Mapping: map[string]string{}}
	for column, idx := range mapping {
		header := table.Headers[idx]
		result.Mapping[column] = header
		if normalizeHeader(header) != column {
			d.logger.WithFields(logrus.Fields{"column": column, "header": header}).Info("Mapped column by similarity")
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.config.WorkerCount)
	for i, record := range table.Rows {
		row := table.line(i)
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			draft := draftFrom(record, mapping)
			err := d.importRow(gctx, draft)
			if gctx.Err() != nil {
				return gctx.Err()
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, failedImport(row, record, draft.Email, err))
				return nil
			}
			result.Success++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, errors.Wrap(err, "import cancelled")
	}

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].RowNumber < result.Failures[j].RowNumber
	})
	d.logger.WithFields(logrus.Fields{
		"total":   result.Total,
		"success": result.Success,
		"failed":  result.Failed(),
	}).Info("Import finished")
	return result, nil
}

func (d *DataImporter) importRow(ctx context.Context, draft forms.CandidatDraft) error {
	payload, errs := draft.Parse()
	if !errs.OK() {
		return &ImportError{Code: CodeValidation, Message: errs.First()}
	}
	if d.config.ValidateOnly {
		return nil
	}

	for attempt := 0; ; attempt++ {
		_, err := apiclient.Post[models.Candidat](ctx, d.client, models.PathCandidati, payload)
		if err == nil {
			return nil
		}
		if !apiclient.IsTransport(err) {
			return &ImportError{Code: CodeRemote, Message: apiclient.Message(err), cause: err}
		}
		if attempt >= d.config.MaxRetries || ctx.Err() != nil {
			return &ImportError{Code: CodeTransport, Message: apiclient.Message(err), cause: err}
		}
		d.logger.WithError(err).WithFields(logrus.Fields{
			"email":   payload.Email,
			"attempt": attempt + 1,
		}).Warn("Retrying candidate create")
		if err := d.sleep(ctx, d.config.RetryDelay*time.Duration(attempt+1)); err != nil {
			return &ImportError{Code: CodeTransport, Message: apiclient.GenericMessage, cause: err}
		}
	}
}

func draftFrom(record []string, mapping map[string]int) forms.CandidatDraft {
	return forms.CandidatDraft{
		Nume:    cell(record, mapping, ColumnNume),
		Prenume: cell(record, mapping, ColumnPrenume),
		Email:   cell(record, mapping, ColumnEmail),
		Parola:  cell(record, mapping, ColumnParola),
	}
}

// cell tolerates short rows; spreadsheets drop trailing empty cells.
func cell(record []string, mapping map[string]int, column string) string {
	idx, ok := mapping[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
