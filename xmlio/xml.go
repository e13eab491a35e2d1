package xmlio

import (
	"encoding/xml"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"time"

	"databind/dataset"
)

const rootElement = "dataset"

// WriteXML renders every table's rows into the XML document form: one
// element per row, named after the table, with one child element per
// column holding the formatted current value. Special characters are
// escaped by the encoder. DELETED rows are skipped; they no longer
// belong to the persisted picture.
func WriteXML(ds *dataset.DataSet, w io.Writer) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: rootElement}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	for _, t := range ds.Tables() {
		for _, r := range t.Rows() {
			if r.Status() == dataset.StatusDeleted {
				continue
			}
			if err := encodeRow(enc, t, r); err != nil {
				return err
			}
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	return enc.Flush()
}

func encodeRow(enc *xml.Encoder, t *dataset.Table, r *dataset.Row) error {
	rowEl := xml.StartElement{Name: xml.Name{Local: t.Name()}}
	if err := enc.EncodeToken(rowEl); err != nil {
		return err
	}
	for _, col := range t.Columns() {
		if col.Expr() != nil {
			continue
		}
		colEl := xml.StartElement{Name: xml.Name{Local: col.Name()}}
		if err := enc.EncodeToken(colEl); err != nil {
			return err
		}
		if v := r.Value(col); v != nil {
			if err := enc.EncodeToken(xml.CharData(formatValue(v))); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(colEl.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(rowEl.End())
}

// ReadXML fills an already-schema'd dataset from the XML document form.
// Loaded rows arrive rebased to UNCHANGED via the silent append path.
// Elements naming unknown tables or columns are skipped.
func ReadXML(ds *dataset.DataSet, rd io.Reader) error {
	dec := xml.NewDecoder(rd)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("xmlio: parse document: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local == rootElement {
			continue
		}
		t := ds.Table(start.Name.Local)
		if t == nil {
			if err := dec.Skip(); err != nil {
				return err
			}
			continue
		}
		if err := decodeRow(dec, t, start); err != nil {
			return err
		}
	}
}

func decodeRow(dec *xml.Decoder, t *dataset.Table, rowEl xml.StartElement) error {
	r := t.AppendRowNoEvent()
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			col := t.Column(el.Name.Local)
			if col == nil {
				if err := dec.Skip(); err != nil {
					return err
				}
				continue
			}
			var text string
			if err := dec.DecodeElement(&text, &el); err != nil {
				return err
			}
			v, err := parseValue(text, col.Type())
			if err != nil {
				return fmt.Errorf("xmlio: value for %s.%s: %w", t.Name(), col.Name(), err)
			}
			r.SetValue(col, v)
		case xml.EndElement:
			if el.Name == rowEl.Name {
				r.SetStatus(dataset.StatusUnchanged)
				return nil
			}
		}
	}
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// parseValue maps element text back to the column type. Empty text
// means nil for every type but string, which cannot distinguish the two
// in this document form.
func parseValue(text string, typ reflect.Type) (interface{}, error) {
	if typ == typeString {
		return text, nil
	}
	if text == "" {
		return nil, nil
	}
	switch typ {
	case typeInt:
		return strconv.Atoi(text)
	case typeFloat:
		return strconv.ParseFloat(text, 64)
	case typeBool:
		return strconv.ParseBool(text)
	case typeTime:
		return time.Parse(time.RFC3339, text)
	default:
		return text, nil
	}
}
