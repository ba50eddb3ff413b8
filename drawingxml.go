package sheetforge

import "encoding/xml"

// buildDrawingXML renders one worksheet's `xl/drawings/drawingN.xml` part:
// a `<xdr:twoCellAnchor>` per placed picture or chart, in insertion order,
// using the struct-tag marshaling the teacher's drawing part was built on
// (the one part of this package that isn't hand-streamed).
func buildDrawingXML(ws *Worksheet) ([]byte, error) {
	root := newDrawingsPart()
	id := 1
	for i, p := range ws.images {
		root.TwoCellAnchor = append(root.TwoCellAnchor, xdrCellAnchor{
			EditAs: editAsFor(p.movement()),
			From:   fromPoint(p.anchor),
			To:     toPoint(p.anchor),
			Pic: &xlsxPic{
				NvPicPr: xlsxNvPicPr{
					CNvPr:    xlsxCNvPr{ID: id, Name: picName(i), Descr: p.altText()},
					CNvPicPr: xlsxCNvPicPr{PicLocks: xlsxPicLocks{NoChangeAspect: 1}},
				},
				BlipFill: xlsxBlipFill{
					Blip:    xlsxBlip{R: nsRelationship.Value, Embed: p.relID},
					Stretch: xlsxStretch{FillRect: ""},
				},
				SpPr: xlsxSpPr{
					Xfrm:     xlsxXfrm{Ext: xlsxExt{Cx: pxToEMU(p.widthPx()), Cy: pxToEMU(p.heightPx())}},
					PrstGeom: xlsxPrstGeom{Prst: "rect"},
				},
			},
			ClientData: xdrClientData{FLocksWithSheet: true, FPrintsWithSheet: true},
		})
		id++
	}
	for i, p := range ws.charts {
		root.TwoCellAnchor = append(root.TwoCellAnchor, xdrCellAnchor{
			EditAs: editAsFor(p.movement()),
			From:   fromPoint(p.anchor),
			To:     toPoint(p.anchor),
			GraphicFrame: &xlsxGraphicFrame{
				Macro: "",
				NvGraphicFramePr: xlsxNvGraphicFramePr{
					CNvPr: xlsxCNvPr{ID: id, Name: chartName(i), Descr: p.altText()},
				},
				Xfrm: xlsxXfrm{Off: xlsxOff{}, Ext: xlsxExt{Cx: pxToEMU(p.widthPx()), Cy: pxToEMU(p.heightPx())}},
				Graphic: xlsxGraphic{GraphicData: xlsxGraphicData{
					URI: nsDrawingMLChart.Value,
					Chart: xlsxChart{
						C:   nsDrawingMLChart.Value,
						R:   nsRelationship.Value,
						RID: p.relID,
					},
				}},
			},
			ClientData: xdrClientData{FLocksWithSheet: true, FPrintsWithSheet: true},
		})
		id++
	}
	body, err := xml.Marshal(root)
	if err != nil {
		return nil, err
	}
	out := append([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"), body...)
	return out, nil
}

func fromPoint(a TwoCellAnchor) xlsxFrom {
	return xlsxFrom{Col: a.FromCol, ColOff: a.FromColOffEMU, Row: a.FromRow, RowOff: a.FromRowOffEMU}
}

func toPoint(a TwoCellAnchor) xlsxTo {
	return xlsxTo{Col: a.ToCol, ColOff: a.ToColOffEMU, Row: a.ToRow, RowOff: a.ToRowOffEMU}
}

// editAsFor translates a MovementPolicy into the `editAs` attribute Excel
// expects on the anchor element.
func editAsFor(m MovementPolicy) string {
	switch m {
	case MoveNoSize, MoveAndSizeAfterHidden:
		return "oneCell"
	case NoMoveNoSize:
		return "absolute"
	default:
		return ""
	}
}

func picName(i int) string   { return "Picture " + itoa(i+1) }
func chartName(i int) string { return "Chart " + itoa(i+1) }
