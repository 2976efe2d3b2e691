package records

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/agentstation/sheetlink/pkg/errors"
)

var (
	spreadsheetPath = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	spreadsheetKey  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// WorksheetRef selects a worksheet by zero-based index or by title.
// A non-empty Name takes precedence.
type WorksheetRef struct {
	Index int    `json:"index" yaml:"index"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
}

// String implements fmt.Stringer.
func (w WorksheetRef) String() string {
	if w.Name != "" {
		return w.Name
	}
	return strconv.Itoa(w.Index)
}

// ParseWorksheetRef interprets digits as an index, anything else as a title,
// and "" as the first worksheet.
func ParseWorksheetRef(s string) WorksheetRef {
	s = strings.TrimSpace(s)
	if s == "" {
		return WorksheetRef{}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return WorksheetRef{Index: n}
	}
	return WorksheetRef{Name: s}
}

// SheetRef identifies one worksheet in one spreadsheet.
type SheetRef struct {
	Spreadsheet string       `json:"spreadsheet" yaml:"spreadsheet"`
	Worksheet   WorksheetRef `json:"worksheet" yaml:"worksheet"`
}

// String implements fmt.Stringer.
func (r SheetRef) String() string {
	return r.Spreadsheet + "#" + r.Worksheet.String()
}

// NewSheetRef resolves a spreadsheet URL or key and a worksheet selector.
func NewSheetRef(spreadsheet, worksheet string) (SheetRef, error) {
	id, err := SpreadsheetID(spreadsheet)
	if err != nil {
		return SheetRef{}, err
	}
	return SheetRef{Spreadsheet: id, Worksheet: ParseWorksheetRef(worksheet)}, nil
}

// SpreadsheetID extracts the spreadsheet key from a full URL, or returns a
// bare key unchanged.
func SpreadsheetID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.NewValidationError("spreadsheet", ref, "spreadsheet URL or key is required")
	}
	if strings.Contains(ref, "://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", errors.WrapValidation("spreadsheet", err)
		}
		if m := spreadsheetPath.FindStringSubmatch(u.Path); m != nil {
			return m[1], nil
		}
		return "", errors.NewValidationError("spreadsheet", ref, "URL does not contain /spreadsheets/d/<key>")
	}
	if !spreadsheetKey.MatchString(ref) {
		return "", errors.NewValidationError("spreadsheet", ref, "not a spreadsheet key")
	}
	return ref, nil
}
