/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Michael Saigachenko
 */

package nedparser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/nedlang/nedxml/pkg/nedast"
)

// parseXMLImpl reads the XML serialization of a NED AST: element names are
// canonical tag names, XML attributes are element attributes. Diagnostics go
// to the error store.
func parseXMLImpl(fileName string, errs *ErrorStore) *nedast.Element {
	data, err := os.ReadFile(fileName)
	if err != nil {
		errs.AddError("", "cannot open '%s': %s", fileName, err.Error())
		return nil
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	var root *nedast.Element
	var current *nedast.Element

	lineAt := func() int {
		off := decoder.InputOffset()
		if off > int64(len(data)) {
			off = int64(len(data))
		}
		return 1 + bytes.Count(data[:off], []byte{'\n'})
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs.AddError(fmt.Sprintf("%s:%d", fileName, lineAt()), "%s", err.Error())
			return nil
		}
		switch t := tok.(type) {
		case xml.StartElement:
			tag := nedast.TagByName(t.Name.Local)
			if tag == nedast.TagUnknown {
				errs.AddError(fmt.Sprintf("%s:%d", fileName, lineAt()), "unknown element '%s'", t.Name.Local)
				return nil
			}
			e := nedast.NewElement(tag)
			e.SetSourceLocation(fileName, lineAt(), 0)
			for _, attr := range t.Attr {
				e.SetAttr(attr.Name.Local, attr.Value)
			}
			if current == nil {
				if root != nil {
					errs.AddError(fmt.Sprintf("%s:%d", fileName, lineAt()), "multiple root elements")
					return nil
				}
				root = e
			} else {
				current.AppendChild(e)
			}
			current = e
		case xml.EndElement:
			if current != nil {
				current = current.Parent()
			}
		}
	}

	if root == nil {
		errs.AddError(fileName, "document contains no elements")
		return nil
	}
	return root
}

// WriteXML writes the XML serialization of an AST: element names are
// canonical tag names, attributes become XML attributes. The output parses
// back with ParseAndValidateFile in XML mode.
func WriteXML(w io.Writer, e *nedast.Element) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := encodeElement(enc, e); err != nil {
		return err
	}
	return enc.Flush()
}

func encodeElement(enc *xml.Encoder, e *nedast.Element) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Tag().String()}}
	for _, attr := range e.Attrs() {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: attr.Name}, Value: attr.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for child := e.FirstChild(); child != nil; child = child.NextSibling() {
		if err := encodeElement(enc, child); err != nil {
			return err
		}
	}
	return enc.EncodeToken(xml.EndElement{Name: start.Name})
}
