package sheetforge

import "errors"

// Sentinel errors returned by mutating worksheet and workbook operations,
// wrapped with fmt.Errorf where additional context (coordinate, sheet name)
// is useful. Not every failure is one of these: CellCoordinates, file I/O
// and YAML parsing return their own errors.
var (
	ErrRowNumber        = errors.New("row number exceeds maximum limit")
	ErrColumnNumber     = errors.New("column number exceeds maximum limit")
	ErrRowColumnOrder   = errors.New("first row or column is greater than last")
	ErrMaxStringLength  = errors.New("cell value is too long, the maximum length of cell value is 32767 characters")
	ErrMaxURLLength     = errors.New("URL length exceeds maximum limit")
	ErrScreenTipLength  = errors.New("screen tip length exceeds maximum limit")
	ErrUnknownURLType   = errors.New("unsupported hyperlink type")
	ErrSheetNameBlank   = errors.New("sheet name can not be blank")
	ErrSheetNameLength  = errors.New("sheet name length exceeds the 31 character limit")
	ErrSheetNameInvalid = errors.New(`sheet name contains invalid character(s): : \ / ? * [ ]`)
	ErrSheetNameQuote   = errors.New("sheet name can not start or end with a single quotation mark")
	ErrSheetNameDup     = errors.New("sheet name already exists")
	ErrSheetNameReserve = errors.New("sheet name is reserved")
	ErrSheetNotExist    = errors.New("sheet does not exist")
	ErrMergeCellOverlap = errors.New("merged range overlaps an existing merged range")
	ErrMergeCellSingle  = errors.New("a merge range must span more than one cell")
	ErrParameterInvalid = errors.New("invalid parameter")
	ErrColumnWidth      = errors.New("the width of the column must be smaller than or equal to 255 characters")
	ErrOutlineLevel     = errors.New("invalid outline level")
	ErrColumnNameInvalid = errors.New("invalid column name")
)
