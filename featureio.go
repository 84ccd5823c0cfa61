/*
 * featureio.go, part of goglass.
 *
 *
 * Copyright 2025 Raul Mera rauldotmeraatusachdotcl
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package glass

import (
	"compress/gzip"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

//WriteCSV writes the matrix as CSV: a header line "id,species,..." with
//the column names, then one line per atom. Floats go through
//strconv.FormatFloat with 'g' and precision 17, so reading the file
//back reproduces every value bit by bit, the Missing sentinel (written
//as NaN) included.
func (M *FeatureMatrix) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	rec := make([]string, 0, 2+len(M.names))
	rec = append(rec, "id", "species")
	rec = append(rec, M.names...)
	if err := cw.Write(rec); err != nil {
		return errDecorate(&CError{err.Error(), nil}, "WriteCSV")
	}
	nr, nc := M.data.Dims()
	for i := 0; i < nr; i++ {
		rec = rec[:0]
		rec = append(rec, strconv.Itoa(M.ids[i]), M.species[i])
		for j := 0; j < nc; j++ {
			rec = append(rec, strconv.FormatFloat(M.data.At(i, j), 'g', 17, 64))
		}
		if err := cw.Write(rec); err != nil {
			return errDecorate(&CError{err.Error(), nil}, "WriteCSV")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errDecorate(&CError{err.Error(), nil}, "WriteCSV")
	}
	return nil
}

//WriteFile writes the matrix as CSV to a file, compressed according to
//the name: zstd for ".zst", gzip for ".gz", plain otherwise.
func (M *FeatureMatrix) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	var w io.WriteCloser = f
	compressed := true
	switch {
	case strings.HasSuffix(path, ".zst"):
		w, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case strings.HasSuffix(path, ".gz"):
		w = gzip.NewWriter(f)
	default:
		compressed = false
	}
	if err != nil {
		f.Close()
		return err
	}
	err = M.WriteCSV(w)
	if err != nil {
		w.Close()
		if compressed {
			f.Close()
		}
		return errDecorate(err, "WriteFile")
	}
	if err := w.Close(); err != nil {
		return err
	}
	if compressed {
		return f.Close()
	}
	return nil
}

//*zstd.Decoder has a Close that returns nothing, which keeps it an
//inch away from io.ReadCloser.
type zstdql struct {
	closeql func()
	*zstd.Decoder
}

func (z zstdql) Close() error {
	z.closeql()
	return nil
}

//ReadFeaturesFile reads back a feature matrix written by WriteFile,
//choosing the decompressor by the file name as WriteFile does.
func ReadFeaturesFile(path string) (*FeatureMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.ReadCloser = f
	switch {
	case strings.HasSuffix(path, ".zst"):
		d, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		r = zstdql{closeql: d.Close, Decoder: d}
		defer r.Close()
	case strings.HasSuffix(path, ".gz"):
		r, err = gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer r.Close()
	}
	M, err := ReadFeaturesCSV(r)
	if err != nil {
		return nil, errDecorate(err, "ReadFeaturesFile")
	}
	return M, nil
}

//ReadFeaturesCSV reads a feature matrix in the format WriteCSV writes.
func ReadFeaturesCSV(r io.Reader) (*FeatureMatrix, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, &CError{"goglass: can't read the header: " + err.Error(), []string{"ReadFeaturesCSV"}}
	}
	if len(header) < 3 || header[0] != "id" || header[1] != "species" {
		return nil, &CError{"goglass: the header is not id,species,<features...>", []string{"ReadFeaturesCSV"}}
	}
	names := make([]string, len(header)-2)
	copy(names, header[2:])
	var ids []int
	var species []string
	var vals []float64
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &CError{"goglass: " + err.Error(), []string{"ReadFeaturesCSV"}}
		}
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, &CError{"goglass: bad atom id: " + err.Error(), []string{"ReadFeaturesCSV"}}
		}
		ids = append(ids, id)
		species = append(species, rec[1])
		for _, s := range rec[2:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, &CError{"goglass: bad value: " + err.Error(), []string{"ReadFeaturesCSV"}}
			}
			vals = append(vals, v)
		}
	}
	if len(ids) == 0 {
		return nil, &CError{"goglass: no data rows", []string{"ReadFeaturesCSV"}}
	}
	return &FeatureMatrix{
		names:   names,
		ids:     ids,
		species: species,
		data:    mat.NewDense(len(ids), len(names), vals),
	}, nil
}
