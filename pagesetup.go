package sheetforge

import "sort"

// PageSetup groups the print/page-setup properties spec.md's external
// interface lists: paper size, orientation, margins, scale, fit-to-pages
// and the print-options flags.
type PageSetup struct {
	PaperSize        int
	Orientation      string // "portrait", "landscape"
	Scale            int
	FitToWidth       int
	FitToHeight      int
	FitToPage        bool
	MarginLeft       float64
	MarginRight      float64
	MarginTop        float64
	MarginBottom     float64
	MarginHeader     float64
	MarginFooter     float64
	CenterHorizontal bool
	CenterVertical   bool
	PrintGridlines   bool
	PrintHeadings    bool
	BlackAndWhite    bool
	FirstPageNumber  int
}

// HeaderFooter holds the six header/footer text+image slots (left/center/
// right x header/footer).
type HeaderFooter struct {
	HeaderLeft, HeaderCenter, HeaderRight string
	FooterLeft, FooterCenter, FooterRight string
	ImageLeft, ImageCenter, ImageRight               *Image // header images
	FooterImageLeft, FooterImageCenter, FooterImageRight *Image
	DifferentFirst, DifferentOddEven                 bool
	ScaleWithDoc, AlignWithMargins                    bool
}

// SetPageSetup assigns the page setup struct wholesale.
func (ws *Worksheet) SetPageSetup(p PageSetup) { ws.pageSetup = p }

// SetHeaderFooter assigns header/footer strings and image slots,
// validating that any `&[Picture]` placeholder has a matching image.
func (ws *Worksheet) SetHeaderFooter(hf HeaderFooter) error {
	check := func(text string, img *Image) error {
		hasPlaceholder := containsPicturePlaceholder(text)
		if hasPlaceholder && img == nil {
			return ErrParameterInvalid
		}
		return nil
	}
	if err := check(hf.HeaderLeft, hf.ImageLeft); err != nil {
		return err
	}
	if err := check(hf.HeaderCenter, hf.ImageCenter); err != nil {
		return err
	}
	if err := check(hf.HeaderRight, hf.ImageRight); err != nil {
		return err
	}
	if err := check(hf.FooterLeft, hf.FooterImageLeft); err != nil {
		return err
	}
	if err := check(hf.FooterCenter, hf.FooterImageCenter); err != nil {
		return err
	}
	if err := check(hf.FooterRight, hf.FooterImageRight); err != nil {
		return err
	}
	ws.headerFooter = hf
	return nil
}

func containsPicturePlaceholder(s string) bool {
	return indexOfSubstr(s, "&[Picture]") >= 0 || indexOfSubstr(s, "&G") >= 0
}

func indexOfSubstr(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 {
		return 0
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}

// SetPrintArea sets the `_xlnm.Print_Area` defined name's range.
func (ws *Worksheet) SetPrintArea(rangeRef string) { ws.printArea = rangeRef }

// SetRepeatRows / SetRepeatCols contribute to `_xlnm.Print_Titles`.
func (ws *Worksheet) SetRepeatRows(rangeRef string) { ws.repeatRows = rangeRef }
func (ws *Worksheet) SetRepeatCols(rangeRef string) { ws.repeatCols = rangeRef }

// AddRowPageBreak / AddColPageBreak register a manual page break. Breaks
// are deduplicated, sorted, and zero is stripped at insertion time; the
// 1023-per-orientation limit is enforced on insert.
func (ws *Worksheet) AddRowPageBreak(row int) error {
	return addBreak(&ws.rowBreaks, row)
}

func (ws *Worksheet) AddColPageBreak(col int) error {
	return addBreak(&ws.colBreaks, col)
}

func addBreak(breaks *[]int, at int) error {
	if at <= 0 {
		return nil
	}
	for _, b := range *breaks {
		if b == at {
			return nil
		}
	}
	if len(*breaks) >= MaxPageBreaks {
		return ErrParameterInvalid
	}
	*breaks = append(*breaks, at)
	sort.Ints(*breaks)
	return nil
}
