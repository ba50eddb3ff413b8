package sheetforge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DefinedNameType is the kind of range a DefinedName records, mirroring
// spec.md §3's sort-key rules for Excel's builtin names.
type DefinedNameType int

const (
	DefinedNameGlobal DefinedNameType = iota
	DefinedNameLocal
	DefinedNameAutofilter
	DefinedNamePrintArea
	DefinedNamePrintTitles
)

// DefinedName is one `<definedName>` entry, global or sheet-scoped.
type DefinedName struct {
	Name       string
	SheetIndex int // -1 for a workbook-global name
	RangeRef   string
	Type       DefinedNameType
}

// sortKey lower-cases the name and strips a literal `_xlnm.` builtin
// prefix so `_xlnm.Print_Area` sorts as `print_area` and
// `_xlnm._FilterDatabase` sorts as `_filterdatabase`, reproducing Excel's
// expected defined-name emit order.
func (dn DefinedName) sortKey() string {
	name := dn.Name
	if strings.HasPrefix(name, "_xlnm.") {
		name = strings.TrimPrefix(name, "_xlnm.")
	}
	return strings.ToLower(name)
}

var reservedSheetNames = map[string]bool{"history": true}

// Workbook is the component 4.K assembler: it owns the ordered worksheet
// list, the workbook-global shared-string table, and orchestrates Save.
type Workbook struct {
	sheets      []*Worksheet
	sheetNames  map[string]int // lowercased name -> index, uniqueness check
	activeIdx   int
	sst         *SharedStringTable
	definedNames []DefinedName
	documentID  string
	nextSheetID int

	structureProtection *strongPassword
}

// NewFile returns an empty workbook with a stable, caller-visible document
// identity (core.xml `dc:identifier`), generated once per workbook per
// spec.md §9's "construct once per workbook" rule for any singleton-like
// state.
func NewFile() *Workbook {
	return &Workbook{
		sheetNames: map[string]int{},
		sst:        NewSharedStringTable(),
		documentID: uuid.NewString(),
		nextSheetID: 1,
	}
}

// validateSheetName enforces spec.md §4.K rule 1: length, blank, forbidden
// characters, leading/trailing apostrophe, and case-insensitive uniqueness
// against a reserved "History" name and every existing sheet.
func validateSheetName(name string, existing map[string]int) error {
	if name == "" {
		return ErrSheetNameBlank
	}
	if len([]rune(name)) > MaxSheetNameLength {
		return ErrSheetNameLength
	}
	if strings.ContainsAny(name, ":\\/?*[]") {
		return ErrSheetNameInvalid
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return ErrSheetNameQuote
	}
	lower := strings.ToLower(name)
	if reservedSheetNames[lower] {
		return ErrSheetNameReserve
	}
	if _, ok := existing[lower]; ok {
		return ErrSheetNameDup
	}
	return nil
}

// AddSheet appends a new worksheet named name (or "SheetN" if name is
// empty) and returns it.
func (wb *Workbook) AddSheet(name string) (*Worksheet, error) {
	if name == "" {
		name = fmt.Sprintf("Sheet%d", wb.nextSheetID)
	}
	if err := validateSheetName(name, wb.sheetNames); err != nil {
		return nil, err
	}
	ws := newWorksheet(name)
	if len(wb.sheets) == 0 {
		ws.Active = true
	}
	wb.sheetNames[strings.ToLower(name)] = len(wb.sheets)
	wb.sheets = append(wb.sheets, ws)
	wb.nextSheetID++
	return ws, nil
}

// Sheet returns the worksheet named name, or ErrSheetNotExist.
func (wb *Workbook) Sheet(name string) (*Worksheet, error) {
	i, ok := wb.sheetNames[strings.ToLower(name)]
	if !ok {
		return nil, ErrSheetNotExist
	}
	return wb.sheets[i], nil
}

// SharedStrings returns the workbook's shared-string table, for worksheet
// Write* calls that require it.
func (wb *Workbook) SharedStrings() *SharedStringTable { return wb.sst }

// SetActiveSheet marks name as the active tab and clears Active on every
// other sheet.
func (wb *Workbook) SetActiveSheet(name string) error {
	i, ok := wb.sheetNames[strings.ToLower(name)]
	if !ok {
		return ErrSheetNotExist
	}
	for idx, ws := range wb.sheets {
		ws.Active = idx == i
	}
	wb.activeIdx = i
	return nil
}

// SetSheetHidden hides or shows name. Hiding the currently active sheet is
// allowed; Excel will pick another tab to activate on open.
func (wb *Workbook) SetSheetHidden(name string, hidden bool) error {
	ws, err := wb.Sheet(name)
	if err != nil {
		return err
	}
	ws.Visible = !hidden
	return nil
}

// DefineName registers a workbook-global defined name.
func (wb *Workbook) DefineName(name, rangeRef string) {
	wb.definedNames = append(wb.definedNames, DefinedName{Name: name, SheetIndex: -1, RangeRef: rangeRef, Type: DefinedNameGlobal})
}

// DefineLocalName registers a defined name scoped to one sheet.
func (wb *Workbook) DefineLocalName(sheetName, name, rangeRef string) error {
	i, ok := wb.sheetNames[strings.ToLower(sheetName)]
	if !ok {
		return ErrSheetNotExist
	}
	wb.definedNames = append(wb.definedNames, DefinedName{Name: name, SheetIndex: i, RangeRef: rangeRef, Type: DefinedNameLocal})
	return nil
}

// yamlDefinedName is the document shape LoadDefinedNamesYAML accepts: a
// flat list of {name, sheet, range} entries, sheet empty meaning global.
type yamlDefinedName struct {
	Name  string `yaml:"name"`
	Sheet string `yaml:"sheet,omitempty"`
	Range string `yaml:"range"`
}

// LoadDefinedNamesYAML batch-registers defined names from a YAML document,
// a convenience layered on top of DefineName/DefineLocalName for callers
// driving sheet structure declaratively instead of one call per name.
func (wb *Workbook) LoadDefinedNamesYAML(data []byte) error {
	var entries []yamlDefinedName
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return err
	}
	for _, e := range entries {
		if e.Sheet == "" {
			wb.DefineName(e.Name, e.Range)
			continue
		}
		if err := wb.DefineLocalName(e.Sheet, e.Name, e.Range); err != nil {
			return err
		}
	}
	return nil
}

// assembleDefinedNames gathers every implicit per-sheet defined name
// (autofilter, print area, print titles) plus the explicit ones registered
// via DefineName/DefineLocalName/LoadDefinedNamesYAML, and sorts the whole
// set by sortKey per spec.md §3.
func (wb *Workbook) assembleDefinedNames() []DefinedName {
	all := make([]DefinedName, len(wb.definedNames))
	copy(all, wb.definedNames)
	for i, ws := range wb.sheets {
		if ws.autofilterRange != nil {
			ref, _ := CellRangeString(ws.autofilterRange.FirstRow, ws.autofilterRange.FirstCol, ws.autofilterRange.LastRow, ws.autofilterRange.LastCol)
			all = append(all, DefinedName{
				Name: "_xlnm._FilterDatabase", SheetIndex: i,
				RangeRef: QualifiedRange(ws.Name, ref), Type: DefinedNameAutofilter,
			})
		}
		if ws.printArea != "" {
			all = append(all, DefinedName{
				Name: "_xlnm.Print_Area", SheetIndex: i,
				RangeRef: QualifiedRange(ws.Name, ws.printArea), Type: DefinedNamePrintArea,
			})
		}
		if ws.repeatRows != "" || ws.repeatCols != "" {
			parts := []string{}
			if ws.repeatCols != "" {
				parts = append(parts, QualifiedRange(ws.Name, ws.repeatCols))
			}
			if ws.repeatRows != "" {
				parts = append(parts, QualifiedRange(ws.Name, ws.repeatRows))
			}
			all = append(all, DefinedName{
				Name: "_xlnm.Print_Titles", SheetIndex: i,
				RangeRef: strings.Join(parts, ","), Type: DefinedNamePrintTitles,
			})
		}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].sortKey() < all[b].sortKey() })
	return all
}
