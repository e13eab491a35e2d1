// Package xmlio persists datasets: a JSONC schema document describing
// tables, columns, defaults and relations, and an XML document form in
// which each table's rows serialize as repeated elements with one child
// element per column value.
package xmlio

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/muhammadmuzzammil1998/jsonc"

	"databind/dataset"
)

type schemaDoc struct {
	Tables    []schemaTable    `json:"tables"`
	Relations []schemaRelation `json:"relations,omitempty"`
}

type schemaTable struct {
	Name        string         `json:"name"`
	AllowAppend *bool          `json:"allowAppend,omitempty"`
	AllowDelete *bool          `json:"allowDelete,omitempty"`
	Columns     []schemaColumn `json:"columns"`
}

type schemaColumn struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Required bool        `json:"required,omitempty"`
	ReadOnly bool        `json:"readOnly,omitempty"`
	Key      bool        `json:"key,omitempty"`
	Default  interface{} `json:"default,omitempty"`
}

type schemaRelation struct {
	Name         string `json:"name"`
	ParentTable  string `json:"parentTable"`
	ParentColumn string `json:"parentColumn"`
	ChildTable   string `json:"childTable"`
	ChildColumn  string `json:"childColumn"`
}

var (
	typeString = reflect.TypeOf("")
	typeInt    = reflect.TypeOf(0)
	typeFloat  = reflect.TypeOf(0.0)
	typeBool   = reflect.TypeOf(false)
	typeTime   = reflect.TypeOf(time.Time{})
)

func typeFor(name string) (reflect.Type, error) {
	switch name {
	case "string":
		return typeString, nil
	case "int":
		return typeInt, nil
	case "float":
		return typeFloat, nil
	case "bool":
		return typeBool, nil
	case "time":
		return typeTime, nil
	}
	return nil, fmt.Errorf("xmlio: unknown column type %q", name)
}

func typeName(t reflect.Type) string {
	switch t {
	case typeInt:
		return "int"
	case typeFloat:
		return "float"
	case typeBool:
		return "bool"
	case typeTime:
		return "time"
	default:
		return "string"
	}
}

// LoadSchema builds a dataset from a schema document. The document may
// carry comments and trailing commas; it is normalized through
// jsonc.ToJSON before decoding.
func LoadSchema(data []byte) (*dataset.DataSet, error) {
	var doc schemaDoc
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("xmlio: parse schema: %w", err)
	}

	ds := dataset.New()
	for _, st := range doc.Tables {
		t := ds.CreateTable(st.Name)
		if st.AllowAppend != nil {
			t.SetAllowAppend(*st.AllowAppend)
		}
		if st.AllowDelete != nil {
			t.SetAllowDelete(*st.AllowDelete)
		}
		for _, sc := range st.Columns {
			typ, err := typeFor(sc.Type)
			if err != nil {
				return nil, err
			}
			col := t.CreateColumn(sc.Name, typ)
			col.SetRequired(sc.Required)
			col.SetReadOnly(sc.ReadOnly)
			if sc.Key {
				col.SetKey(true)
			}
			if sc.Default != nil {
				def, err := coerce(sc.Default, typ)
				if err != nil {
					return nil, fmt.Errorf("xmlio: default for %s.%s: %w", st.Name, sc.Name, err)
				}
				col.SetDefault(def)
			}
		}
	}
	for _, sr := range doc.Relations {
		parent := ds.Table(sr.ParentTable)
		child := ds.Table(sr.ChildTable)
		if parent == nil || child == nil {
			return nil, fmt.Errorf("xmlio: relation %q references unknown table", sr.Name)
		}
		ds.CreateRelation(sr.Name, parent.MustColumn(sr.ParentColumn), child.MustColumn(sr.ChildColumn))
	}
	return ds, nil
}

// SaveSchema renders the dataset's structure as a schema document.
func SaveSchema(ds *dataset.DataSet) ([]byte, error) {
	doc := schemaDoc{}
	for _, t := range ds.Tables() {
		st := schemaTable{Name: t.Name()}
		for _, col := range t.Columns() {
			st.Columns = append(st.Columns, schemaColumn{
				Name:     col.Name(),
				Type:     typeName(col.Type()),
				Required: col.Required(),
				ReadOnly: col.ReadOnly(),
				Key:      col.Key(),
				Default:  col.Default(),
			})
		}
		doc.Tables = append(doc.Tables, st)
	}
	for _, rel := range ds.Relations() {
		pc, cc := rel.ParentColumn(), rel.ChildColumn()
		if pc == nil || cc == nil {
			continue
		}
		doc.Relations = append(doc.Relations, schemaRelation{
			Name:         rel.Name(),
			ParentTable:  pc.Table().Name(),
			ParentColumn: pc.Name(),
			ChildTable:   cc.Table().Name(),
			ChildColumn:  cc.Name(),
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// coerce adapts a decoded JSON value to the column type; JSON numbers
// arrive as float64.
func coerce(v interface{}, typ reflect.Type) (interface{}, error) {
	switch typ {
	case typeInt:
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", v)
		}
		return int(f), nil
	case typeFloat:
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", v)
		}
		return f, nil
	case typeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		return b, nil
	case typeTime:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected RFC 3339 string, got %T", v)
		}
		return time.Parse(time.RFC3339, s)
	default:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil
	}
}
