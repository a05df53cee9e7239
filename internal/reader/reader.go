// Package reader turns supplier files into ordered sequences of row mappings.
// The first row provides field names for delimited text and spreadsheets;
// normalized JSON files carry their own keys.
package reader

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrFormatoNoSoportado signals an extension the pipeline cannot read.
// Fatal to a batch; the caller decides how to surface it.
var ErrFormatoNoSoportado = errors.New("formato de archivo no soportado")

// Fila is one raw row: column name → cell value as text.
type Fila map[string]string

// Leer reads a file according to its extension. limit > 0 truncates the
// result, which keeps provider sniffing cheap on large files.
func Leer(path string, limit int) ([]Fila, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LeerCSV(path, limit)
	case ".xlsx", ".xls":
		return LeerExcel(path, limit)
	case ".json":
		return LeerJSON(path, limit)
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormatoNoSoportado, filepath.Ext(path))
	}
}

// LeerCSV reads a delimited text file using the first record as field names.
func LeerCSV(path string, limit int) ([]Fila, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // supplier files are ragged more often than not
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("leer cabecera csv: %w", err)
	}
	cols := nombresColumnas(header)

	var filas []Fila
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer fila csv: %w", err)
		}
		fila := Fila{}
		for i, v := range record {
			if i >= len(cols) {
				fila[fmt.Sprintf("COL_%d", i+1)] = v
				continue
			}
			fila[cols[i]] = v
		}
		filas = append(filas, fila)
		if limit > 0 && len(filas) >= limit {
			break
		}
	}
	return filas, nil
}

// LeerExcel reads the first sheet of a spreadsheet, first row as field names.
func LeerExcel(path string, limit int) ([]Fila, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("abrir excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := nombresColumnas(rows[0])
	var filas []Fila
	for _, record := range rows[1:] {
		fila := Fila{}
		for i, v := range record {
			if i >= len(cols) {
				fila[fmt.Sprintf("COL_%d", i+1)] = v
				continue
			}
			fila[cols[i]] = v
		}
		filas = append(filas, fila)
		if limit > 0 && len(filas) >= limit {
			break
		}
	}
	return filas, nil
}

// LeerJSON reads a pre-normalized file: an array of objects, or a single
// object treated as a one-row array. Values are stringified so the parsers
// see the same shape regardless of source format.
func LeerJSON(path string, limit int) ([]Fila, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer json: %w", err)
	}

	var arr []map[string]interface{}
	if err := json.Unmarshal(raw, &arr); err != nil {
		var obj map[string]interface{}
		if err2 := json.Unmarshal(raw, &obj); err2 != nil {
			return nil, fmt.Errorf("parsear json: %w", err)
		}
		arr = []map[string]interface{}{obj}
	}

	var filas []Fila
	for _, obj := range arr {
		fila := Fila{}
		for k, v := range obj {
			fila[k] = valorTexto(v)
		}
		filas = append(filas, fila)
		if limit > 0 && len(filas) >= limit {
			break
		}
	}
	return filas, nil
}

// nombresColumnas normalizes a header record: trims names, invents COL_n for
// blank cells, and deduplicates repeats so no cell is silently dropped.
func nombresColumnas(header []string) []string {
	cols := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("COL_%d", i+1)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 1
		}
		cols[i] = name
	}
	return cols
}

func valorTexto(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
