// Package importer loads the INSEE StockUniteLegale CSV export into the
// unite_legale table.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/siren-services/internal/repository"
)

const (
	DefaultBatchSize = 1000
	MaxBatchSize     = 1900
)

// csvHeaders holds the CSV header of each column in repository.ImportColumns,
// index for index.
var csvHeaders = []string{
	"siren",
	"statutDiffusionUniteLegale",
	"unitePurgeeUniteLegale",
	"dateCreationUniteLegale",
	"sigleUniteLegale",
	"sexeUniteLegale",
	"prenom1UniteLegale",
	"prenom2UniteLegale",
	"prenom3UniteLegale",
	"prenom4UniteLegale",
	"prenomUsuelUniteLegale",
	"pseudonymeUniteLegale",
	"identifiantAssociationUniteLegale",
	"trancheEffectifsUniteLegale",
	"anneeEffectifsUniteLegale",
	"dateDernierTraitementUniteLegale",
	"nombrePeriodesUniteLegale",
	"categorieEntreprise",
	"anneeCategorieEntreprise",
	"dateDebut",
	"etatAdministratifUniteLegale",
	"nomUniteLegale",
	"nomUsageUniteLegale",
	"denominationUniteLegale",
	"denominationUsuelle1UniteLegale",
	"denominationUsuelle2UniteLegale",
	"denominationUsuelle3UniteLegale",
	"categorieJuridiqueUniteLegale",
	"activitePrincipaleUniteLegale",
	"nomenclatureActivitePrincipaleUniteLegale",
	"nicSiegeUniteLegale",
	"economieSocialeSolidaireUniteLegale",
	"societeMissionUniteLegale",
	"caractereEmployeurUniteLegale",
}

// ErrNoSirenColumn is returned when the CSV header lacks the siren column.
var ErrNoSirenColumn = errors.New("csv header has no siren column")

// BatchWriter stores one batch of rows and reports how many were inserted.
type BatchWriter interface {
	InsertBatch(ctx context.Context, rows [][]any) (int64, error)
}

// Stats summarizes one import run. Skipped counts duplicates ignored by the
// database and the rows of batches that failed.
type Stats struct {
	Read     int64
	Inserted int64
	Skipped  int64
	Failed   int
}

type Importer struct {
	w         BatchWriter
	batchSize int
	log       *zap.Logger
}

// New returns an Importer writing batches of batchSize rows.
func New(w BatchWriter, batchSize int, log *zap.Logger) (*Importer, error) {
	if batchSize < 1 || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("batch size must be between 1 and %d, got %d", MaxBatchSize, batchSize)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{w: w, batchSize: batchSize, log: log}, nil
}

// Import reads r to the end. A batch the database rejects is logged and
// counted as skipped; only unreadable input or a cancelled ctx stop the run.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Stats, error) {
	var st Stats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return st, fmt.Errorf("read header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return st, err
	}
	im.log.Info("csv header read", zap.Int("columns", len(header)))

	batch := make([][]any, 0, im.batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		n, err := im.w.InsertBatch(ctx, batch)
		if err != nil {
			st.Failed++
			im.log.Warn("batch insert failed", zap.Int("rows", len(batch)), zap.Error(err))
			n = 0
		}
		st.Inserted += n
		st.Skipped += int64(len(batch)) - n
		im.log.Info("batch processed",
			zap.Int64("read", st.Read),
			zap.Int64("inserted", st.Inserted),
			zap.Int64("skipped", st.Skipped),
		)
		batch = batch[:0]
	}

	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return st, fmt.Errorf("read csv: %w", err)
		}
		st.Read++
		batch = append(batch, mapRecord(rec, index))
		if len(batch) >= im.batchSize {
			flush()
		}
	}
	flush()
	return st, nil
}

// columnIndex returns, for each import column, the position of its CSV
// header, or -1 when the file does not carry it.
func columnIndex(header []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		pos[strings.TrimSpace(h)] = i
	}
	index := make([]int, len(csvHeaders))
	for i, h := range csvHeaders {
		p, ok := pos[h]
		if !ok {
			p = -1
		}
		index[i] = p
	}
	if index[0] < 0 {
		return nil, ErrNoSirenColumn
	}
	return index, nil
}

// mapRecord orders rec by repository.ImportColumns. Empty and missing values
// become NULL.
func mapRecord(rec []string, index []int) []any {
	row := make([]any, len(index))
	for i, p := range index {
		if p < 0 || p >= len(rec) || rec[p] == "" {
			continue
		}
		row[i] = rec[p]
	}
	return row
}

var _ BatchWriter = (*repository.ImportRepo)(nil)
