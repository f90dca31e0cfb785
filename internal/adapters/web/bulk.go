package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"factory-erp/internal/core"
)

// maxImportBytes bounds the uploaded spreadsheet, not the decoded rows.
const maxImportBytes = 10 << 20

type importRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type importResult struct {
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []importRowError `json:"errors"`
}

// openImportSheet pulls the uploaded .xlsx out of the multipart form and
// returns its active sheet as rows. The first row is the header.
func openImportSheet(w http.ResponseWriter, r *http.Request) ([][]string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		writeError(w, r, "invalid multipart form: "+err.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
		return nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, "missing file upload field \"file\"", "VALIDATION_ERROR", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		writeError(w, r, "only .xlsx files are supported", "VALIDATION_ERROR", http.StatusBadRequest)
		return nil, false
	}

	f, err := excelize.OpenReader(file)
	if err != nil {
		writeError(w, r, "could not read Excel file: "+err.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
		return nil, false
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		writeError(w, r, "could not read sheet rows: "+err.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
		return nil, false
	}
	if len(rows) < 2 {
		writeError(w, r, "file contains no data rows", "VALIDATION_ERROR", http.StatusBadRequest)
		return nil, false
	}
	return rows, true
}

// headerIndex maps normalized column titles to their positions. Titles are
// matched case-insensitively with spaces collapsed, so "Weight (grams)" and
// "weightGrams" both resolve.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, title := range header {
		idx[normalizeHeader(title)] = i
	}
	return idx
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, cut := range []string{" ", "(", ")", "/", "_", "-"} {
		s = strings.ReplaceAll(s, cut, "")
	}
	return s
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func columnOf(idx map[string]int, names ...string) int {
	for _, n := range names {
		if i, ok := idx[n]; ok {
			return i
		}
	}
	return -1
}

func (h *Handler) bulkImportProducts(w http.ResponseWriter, r *http.Request) {
	rows, ok := openImportSheet(w, r)
	if !ok {
		return
	}

	idx := headerIndex(rows[0])
	nameCol := columnOf(idx, "productname", "name")
	weightCol := columnOf(idx, "weightgrams", "weight")
	typeCol := columnOf(idx, "materialtype", "rawmaterialtype")
	priceCol := columnOf(idx, "materialpricekg", "rawmaterialpriceperkg", "materialprice")
	if nameCol < 0 || weightCol < 0 || typeCol < 0 || priceCol < 0 {
		writeError(w, r, "missing required columns: Product Name, Weight (grams), Material Type, Material Price/KG", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}

	result := importResult{Errors: []importRowError{}}
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, header is row 1

		name := cell(row, nameCol)
		if name == "" {
			continue // skip blank rows silently
		}

		weight, err := decimal.NewFromString(cell(row, weightCol))
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, importRowError{Row: rowNum, Error: fmt.Sprintf("invalid weight %q", cell(row, weightCol))})
			continue
		}
		price, err := decimal.NewFromString(cell(row, priceCol))
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, importRowError{Row: rowNum, Error: fmt.Sprintf("invalid material price %q", cell(row, priceCol))})
			continue
		}

		input := core.ProductInput{
			Name:                  name,
			WeightGrams:           weight,
			RawMaterialType:       cell(row, typeCol),
			RawMaterialPricePerKg: price,
		}
		if _, err := h.svc.CreateProduct(r.Context(), input); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, importRowError{Row: rowNum, Error: err.Error()})
			continue
		}
		result.Imported++
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) bulkImportParties(w http.ResponseWriter, r *http.Request) {
	rows, ok := openImportSheet(w, r)
	if !ok {
		return
	}

	idx := headerIndex(rows[0])
	nameCol := columnOf(idx, "partyname", "name")
	addressCol := columnOf(idx, "address")
	pinCol := columnOf(idx, "pincode")
	phoneCol := columnOf(idx, "phonenumber", "phone")
	gstCol := columnOf(idx, "gstnumber", "gst")
	if nameCol < 0 || addressCol < 0 || pinCol < 0 || phoneCol < 0 {
		writeError(w, r, "missing required columns: Party Name, Address, Pin Code, Phone Number", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}

	result := importResult{Errors: []importRowError{}}
	for i, row := range rows[1:] {
		rowNum := i + 2

		name := cell(row, nameCol)
		if name == "" {
			continue
		}

		input := core.PartyInput{
			Name:        name,
			Address:     cell(row, addressCol),
			PinCode:     cell(row, pinCol),
			PhoneNumber: cell(row, phoneCol),
		}
		if gst := cell(row, gstCol); gst != "" {
			input.GSTNumber = &gst
		}
		if _, err := h.svc.CreateParty(r.Context(), input); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, importRowError{Row: rowNum, Error: err.Error()})
			continue
		}
		result.Imported++
	}

	writeJSON(w, http.StatusOK, result)
}
