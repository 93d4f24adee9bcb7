package boosting

import (
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/muhkartal/BoostedPP/pkg/errors"
)

// BinInfo holds the ascending split thresholds a feature column was binned
// against. A value v is assigned to bin sort.Search(len(Splits), Splits[i]
// >= v) when finite, or bin len(Splits) when v is NaN — the same rule
// regardless of how Splits was built, so GetBin never special-cases the two
// construction branches below.
type BinInfo struct {
	Splits []float64 `json:"splits"`
}

// GetBin returns the bin index v falls into under this BinInfo.
func (b BinInfo) GetBin(v float32) uint16 {
	if math.IsNaN(float64(v)) {
		return uint16(len(b.Splits))
	}
	fv := float64(v)
	idx := sort.Search(len(b.Splits), func(i int) bool { return b.Splits[i] >= fv })
	return uint16(idx)
}

// DataMatrix is a dense, row-major feature matrix plus optional labels and
// per-column binning metadata. Raw holds the original float32 values (NaN
// for missing); Binned holds the bin index of every cell once CreateBins or
// ApplyBins has been called, laid out identically to Raw.
type DataMatrix struct {
	Rows, Cols int
	Raw        []float32
	Binned     []uint16
	Labels     []float64
	Bins       []BinInfo
}

// NewDataMatrixFromSlice builds a DataMatrix from a row-major slice of
// length rows*cols, with an optional label vector (nil for inference-only
// matrices). Returns DataShapeMismatchError if the slice or label lengths
// don't match rows/cols.
func NewDataMatrixFromSlice(raw []float32, rows, cols int, labels []float64) (*DataMatrix, error) {
	if len(raw) != rows*cols {
		return nil, errors.NewDataShapeMismatchError("NewDataMatrixFromSlice", rows*cols, len(raw), -1)
	}
	if labels != nil && len(labels) != rows {
		return nil, errors.NewDataShapeMismatchError("NewDataMatrixFromSlice", rows, len(labels), 0)
	}
	return &DataMatrix{Rows: rows, Cols: cols, Raw: raw, Labels: labels}, nil
}

// NewDataMatrixFromCSV parses a comma-separated table where the final
// column is the label. Empty fields, "NA", "N/A", and "?" parse to NaN in
// feature columns; a non-numeric label is a DataParseFailureError.
func NewDataMatrixFromCSV(r io.Reader, hasHeader bool) (*DataMatrix, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.NewIOFailureError("NewDataMatrixFromCSV", "", err)
	}
	if hasHeader && len(records) > 0 {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "NewDataMatrixFromCSV")
	}

	cols := len(records[0]) - 1
	if cols < 1 {
		return nil, errors.NewDataParseFailureError("csv", 1, "row must have at least one feature column and one label column")
	}

	rows := len(records)
	raw := make([]float32, rows*cols)
	labels := make([]float64, rows)

	for i, rec := range records {
		if len(rec) != cols+1 {
			return nil, errors.NewDataParseFailureError("csv", i+1, "ragged row: inconsistent column count")
		}
		for j := 0; j < cols; j++ {
			v, ok := parseFeatureValue(rec[j])
			if !ok {
				return nil, errors.NewDataParseFailureError("csv", i+1, "unparseable feature value: "+rec[j])
			}
			raw[i*cols+j] = v
		}
		label, err := strconv.ParseFloat(strings.TrimSpace(rec[cols]), 64)
		if err != nil {
			return nil, errors.NewDataParseFailureError("csv", i+1, "unparseable label value: "+rec[cols])
		}
		labels[i] = label
	}

	return &DataMatrix{Rows: rows, Cols: cols, Raw: raw, Labels: labels}, nil
}

func parseFeatureValue(s string) (float32, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "NA", "N/A", "?", "NaN":
		return float32(math.NaN()), true
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}

// At returns the raw value at (row, col).
func (d *DataMatrix) At(row, col int) float32 {
	return d.Raw[row*d.Cols+col]
}

// Row returns the raw feature values of one row as a slice view into Raw.
func (d *DataMatrix) Row(row int) []float32 {
	return d.Raw[row*d.Cols : (row+1)*d.Cols]
}

// BinnedAt returns the bin index at (row, col). Panics if CreateBins or
// ApplyBins has not been called.
func (d *DataMatrix) BinnedAt(row, col int) uint16 {
	return d.Binned[row*d.Cols+col]
}

// Label returns the label of a row, or 0 if this matrix has no labels.
func (d *DataMatrix) Label(row int) float64 {
	if d.Labels == nil {
		return 0
	}
	return d.Labels[row]
}

// CreateBins computes per-column bin thresholds from this matrix's own raw
// values and fills Binned in place. For a column with U distinct finite
// values: if U <= nBins the thresholds are the U values themselves; if U >
// nBins the thresholds are the nBins-1 equal-frequency quantile edges
// edge_i = sorted[((i+1)*U)/nBins]. Missing values always route to the
// bin numbered len(Splits), which coincides with the top finite bin in the
// U > nBins case — a direct, intended consequence of the formula above.
func (d *DataMatrix) CreateBins(nBins int) error {
	if nBins < 1 || nBins > 256 {
		return errors.NewConfigurationInvalidError("NBins", "must be in [1, 256]", nBins)
	}

	d.Bins = make([]BinInfo, d.Cols)
	for col := 0; col < d.Cols; col++ {
		d.Bins[col] = buildBinInfo(d.column(col), nBins)
	}
	return d.applyOwnBins()
}

func (d *DataMatrix) column(col int) []float32 {
	out := make([]float32, d.Rows)
	for r := 0; r < d.Rows; r++ {
		out[r] = d.Raw[r*d.Cols+col]
	}
	return out
}

func buildBinInfo(values []float32, nBins int) BinInfo {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(float64(v)) {
			finite = append(finite, float64(v))
		}
	}
	sort.Float64s(finite)

	unique := dedupeSorted(finite)
	u := len(unique)

	if u <= nBins {
		return BinInfo{Splits: unique}
	}

	splits := make([]float64, nBins-1)
	for i := 0; i < nBins-1; i++ {
		idx := ((i + 1) * u) / nBins
		splits[i] = unique[idx]
	}
	return BinInfo{Splits: splits}
}

func dedupeSorted(sorted []float64) []float64 {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// ApplyBins fills Binned using bin thresholds already computed on another
// matrix (typically the training set), so validation and test matrices are
// binned consistently with the model that will score them. Returns a
// DataShapeMismatchError if the column counts disagree.
func (d *DataMatrix) ApplyBins(fitted *DataMatrix) error {
	if len(fitted.Bins) != d.Cols {
		return errors.NewDataShapeMismatchError("ApplyBins", d.Cols, len(fitted.Bins), 1)
	}
	d.Bins = fitted.Bins
	return d.applyOwnBins()
}

func (d *DataMatrix) applyOwnBins() error {
	d.Binned = make([]uint16, d.Rows*d.Cols)
	for r := 0; r < d.Rows; r++ {
		for c := 0; c < d.Cols; c++ {
			d.Binned[r*d.Cols+c] = d.Bins[c].GetBin(d.Raw[r*d.Cols+c])
		}
	}
	return nil
}
