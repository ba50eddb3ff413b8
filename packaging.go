package sheetforge

import (
	"archive/zip"
	"fmt"
	"io"
	"sort"
	"time"
)

// relEntry is one `<Relationship>` row shared by every `.rels` part this
// package writes.
type relEntry struct {
	id, relType, target string
	external            bool
}

func buildRelsXML(entries []relEntry) []byte {
	w := newXMLWriter()
	w.Declaration()
	w.Start("Relationships", A("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships"))
	for _, e := range entries {
		attrs := []attr{A("Id", e.id), A("Type", e.relType), A("Target", e.target)}
		if e.external {
			attrs = append(attrs, A("TargetMode", "External"))
		}
		w.Empty("Relationship", attrs...)
	}
	w.End("Relationships")
	return w.Bytes()
}

// contentTypesBuilder accumulates the Default (by extension) and Override
// (by exact part name) entries `[Content_Types].xml` needs, built up as
// assemble walks the package.
type contentTypesBuilder struct {
	defaults  map[string]string // extension -> content type
	overrides map[string]string // part name (leading "/") -> content type
}

func newContentTypesBuilder() *contentTypesBuilder {
	return &contentTypesBuilder{
		defaults:  map[string]string{"rels": "application/vnd.openxmlformats-package.relationships+xml", "xml": "application/xml"},
		overrides: map[string]string{},
	}
}

func (b *contentTypesBuilder) addDefault(ext, contentType string) { b.defaults[ext] = contentType }
func (b *contentTypesBuilder) addOverride(part, contentType string) {
	b.overrides[part] = contentType
}

func (b *contentTypesBuilder) build() []byte {
	w := newXMLWriter()
	w.Declaration()
	w.Start("Types", A("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types"))
	exts := make([]string, 0, len(b.defaults))
	for ext := range b.defaults {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		w.Empty("Default", A("Extension", ext), A("ContentType", b.defaults[ext]))
	}
	parts := make([]string, 0, len(b.overrides))
	for p := range b.overrides {
		parts = append(parts, p)
	}
	sort.Strings(parts)
	for _, p := range parts {
		w.Empty("Override", A("PartName", p), A("ContentType", b.overrides[p]))
	}
	w.End("Types")
	return w.Bytes()
}

// buildCorePropsXML renders `docProps/core.xml`: Dublin Core metadata plus
// the workbook's uuid-based identifier.
func buildCorePropsXML(wb *Workbook, created time.Time) []byte {
	w := newXMLWriter()
	w.Declaration()
	w.Start("cp:coreProperties",
		A("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"),
		A("xmlns:dc", "http://purl.org/dc/elements/1.1/"),
		A("xmlns:dcterms", "http://purl.org/dc/terms/"),
		A("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance"))
	w.Data("dc:identifier", wb.documentID)
	stamp := created.UTC().Format("2006-01-02T15:04:05Z")
	w.Start("dcterms:created", A("xsi:type", "dcterms:W3CDTF"))
	w.b.WriteString(EscapeText(stamp))
	w.End("dcterms:created")
	w.Start("dcterms:modified", A("xsi:type", "dcterms:W3CDTF"))
	w.b.WriteString(EscapeText(stamp))
	w.End("dcterms:modified")
	w.End("cp:coreProperties")
	return w.Bytes()
}

// buildAppPropsXML renders `docProps/app.xml`: the sheet-title vector
// Excel's "Document Properties" pane reads.
func buildAppPropsXML(sheetNames []string) []byte {
	w := newXMLWriter()
	w.Declaration()
	w.Start("Properties",
		A("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"),
		A("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"))
	w.Data("Application", "sheetforge")
	w.Start("HeadingPairs")
	w.Start("vt:vector", A("size", "2"), A("baseType", "variant"))
	w.Start("vt:variant")
	w.Data("vt:lpstr", "Worksheets")
	w.End("vt:variant")
	w.Start("vt:variant")
	w.Data("vt:i4", itoa(len(sheetNames)))
	w.End("vt:variant")
	w.End("vt:vector")
	w.End("HeadingPairs")
	w.Start("TitlesOfParts")
	w.Start("vt:vector", A("size", itoa(len(sheetNames))), A("baseType", "lpstr"))
	for _, n := range sheetNames {
		w.Data("vt:lpstr", n)
	}
	w.End("vt:vector")
	w.End("TitlesOfParts")
	w.End("Properties")
	return w.Bytes()
}

// assembledPart is one named byte blob destined for the zip package.
type assembledPart struct {
	name string
	data []byte
}

// assemble builds every part of the package: styles, shared strings,
// each worksheet (with its drawing/table/media satellites), the
// workbook, and the package-level rels/content-types/doc-properties.
func (wb *Workbook) assemble(now time.Time) ([]assembledPart, error) {
	if len(wb.sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrParameterInvalid)
	}

	registries := make([]*formatRegistry, len(wb.sheets))
	for i, ws := range wb.sheets {
		registries[i] = ws.formats
	}
	styleTbl, localToGlobal := assembleStyles(registries)

	var parts []assembledPart
	ct := newContentTypesBuilder()
	ct.addOverride("/xl/workbook.xml", contentTypeWorkbook)
	ct.addOverride("/xl/styles.xml", contentTypeStyles)
	ct.addOverride("/xl/sharedStrings.xml", contentTypeSharedStr)
	ct.addOverride("/docProps/core.xml", contentTypeCoreProps)
	ct.addOverride("/docProps/app.xml", contentTypeExtProps)

	wbRels := []relEntry{
		{id: "rId1", relType: relTypeStyles, target: "styles.xml"},
		{id: "rId2", relType: relTypeSharedStrings, target: "sharedStrings.xml"},
	}
	nextWbRelID := 3

	sheetRIDs := make([]string, len(wb.sheets))
	imageHashToName := map[uint64]string{}
	mediaIdx := 1
	var mediaParts []assembledPart
	tableIdx := 1
	chartIdx := 1
	drawingIdx := 1

	for i, ws := range wb.sheets {
		rid := "rId" + itoa(nextWbRelID)
		nextWbRelID++
		sheetRIDs[i] = rid
		sheetFile := fmt.Sprintf("worksheets/sheet%d.xml", i+1)
		wbRels = append(wbRels, relEntry{id: rid, relType: relTypeWorksheet, target: sheetFile})
		ct.addOverride("/xl/"+sheetFile, contentTypeWorksheet)

		var sheetRels []relEntry
		nextSheetRelID := 1

		for _, ref := range sortedHyperlinkRefs(ws.hyperlinks) {
			h := ws.hyperlinks[ref]
			if h.Kind == "internal" {
				continue
			}
			rid := "rId" + itoa(nextSheetRelID)
			nextSheetRelID++
			h.RelID = rid
			sheetRels = append(sheetRels, relEntry{id: rid, relType: relTypeHyperlink, target: h.Target, external: true})
		}

		for _, t := range ws.tables {
			t.id = tableIdx
			rid := "rId" + itoa(nextSheetRelID)
			nextSheetRelID++
			t.relID = rid
			tableFile := fmt.Sprintf("tables/table%d.xml", tableIdx)
			sheetRels = append(sheetRels, relEntry{id: rid, relType: relTypeTable, target: "../" + tableFile})
			ct.addOverride("/xl/"+tableFile, contentTypeTable)
			parts = append(parts, assembledPart{name: "xl/" + tableFile, data: buildTableXML(t)})
			tableIdx++
		}

		drawingRID := ""
		if len(ws.images) > 0 || len(ws.charts) > 0 {
			var drawingRels []relEntry
			nextDrawingRelID := 1
			for _, p := range ws.images {
				name, ok := imageHashToName[p.img.Hash]
				if !ok {
					name = fmt.Sprintf("image%d.%s", mediaIdx, p.img.Kind.extension())
					mediaIdx++
					imageHashToName[p.img.Hash] = name
					ct.addDefault(p.img.Kind.extension(), p.img.Kind.contentType())
					mediaParts = append(mediaParts, assembledPart{name: "xl/media/" + name, data: p.img.Bytes})
				}
				rid := "rId" + itoa(nextDrawingRelID)
				nextDrawingRelID++
				p.relID = rid
				drawingRels = append(drawingRels, relEntry{id: rid, relType: relTypeImage, target: "../media/" + name})
			}
			for _, p := range ws.charts {
				p.id = chartIdx
				rid := "rId" + itoa(nextDrawingRelID)
				nextDrawingRelID++
				p.relID = rid
				chartFile := fmt.Sprintf("charts/chart%d.xml", chartIdx)
				drawingRels = append(drawingRels, relEntry{id: rid, relType: relTypeChart, target: "../" + chartFile})
				ct.addOverride("/xl/"+chartFile, contentTypeChart)
				parts = append(parts, assembledPart{name: "xl/" + chartFile, data: p.chart.EmitXML(chartIdx)})
				chartIdx++
			}

			drawingFile := fmt.Sprintf("drawings/drawing%d.xml", drawingIdx)
			rid := "rId" + itoa(nextSheetRelID)
			nextSheetRelID++
			drawingRID = rid
			sheetRels = append(sheetRels, relEntry{id: rid, relType: relTypeDrawing, target: "../" + drawingFile})
			ct.addOverride("/xl/"+drawingFile, contentTypeDrawing)
			drawingXML, err := buildDrawingXML(ws)
			if err != nil {
				return nil, err
			}
			parts = append(parts, assembledPart{name: "xl/" + drawingFile, data: drawingXML})
			if len(drawingRels) > 0 {
				parts = append(parts, assembledPart{
					name: fmt.Sprintf("xl/drawings/_rels/drawing%d.xml.rels", drawingIdx),
					data: buildRelsXML(drawingRels),
				})
			}
			drawingIdx++
		}

		parts = append(parts, assembledPart{name: "xl/" + sheetFile, data: buildWorksheetXML(ws, localToGlobal[i], drawingRID)})
		if len(sheetRels) > 0 {
			parts = append(parts, assembledPart{
				name: fmt.Sprintf("xl/worksheets/_rels/sheet%d.xml.rels", i+1),
				data: buildRelsXML(sheetRels),
			})
		}
	}

	parts = append(parts, mediaParts...)
	parts = append(parts, assembledPart{name: "xl/styles.xml", data: buildStylesXML(styleTbl)})
	parts = append(parts, assembledPart{name: "xl/sharedStrings.xml", data: buildSharedStringsXML(wb.sst)})
	parts = append(parts, assembledPart{
		name: "xl/workbook.xml",
		data: buildWorkbookXML(wb.sheets, sheetRIDs, wb.activeIdx, wb.assembleDefinedNames(), wb.structureProtection),
	})
	parts = append(parts, assembledPart{name: "xl/_rels/workbook.xml.rels", data: buildRelsXML(wbRels)})

	parts = append(parts, assembledPart{name: "docProps/core.xml", data: buildCorePropsXML(wb, now)})
	names := make([]string, len(wb.sheets))
	for i, s := range wb.sheets {
		names[i] = s.Name
	}
	parts = append(parts, assembledPart{name: "docProps/app.xml", data: buildAppPropsXML(names)})

	rootRels := []relEntry{
		{id: "rId1", relType: relTypeOfficeDocument, target: "xl/workbook.xml"},
		{id: "rId2", relType: relTypeCoreProps, target: "docProps/core.xml"},
		{id: "rId3", relType: relTypeExtendedProps, target: "docProps/app.xml"},
	}
	parts = append(parts, assembledPart{name: "_rels/.rels", data: buildRelsXML(rootRels)})
	parts = append(parts, assembledPart{name: "[Content_Types].xml", data: ct.build()})

	return parts, nil
}

// WriteTo serializes the workbook as a zip package to w, returning the
// number of bytes written.
func (wb *Workbook) WriteTo(w io.Writer) (int64, error) {
	parts, err := wb.assemble(time.Now())
	if err != nil {
		return 0, err
	}
	counter := &countingWriter{w: w}
	zw := zip.NewWriter(counter)
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return counter.n, err
		}
		if _, err := f.Write(p.data); err != nil {
			return counter.n, err
		}
	}
	if err := zw.Close(); err != nil {
		return counter.n, err
	}
	return counter.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
