package mdx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// extractHeaderAttributes parses the header's root XML element (either
// <Dictionary .../> or the legacy <Library_Data .../>) and returns its
// attributes as a plain string map. This is the "XML utility" the core
// consumes per spec.md §6; it is intentionally minimal — it reads only
// the attributes of the first start element and does not model the
// rest of the MDict header XML schema, which has no further nested
// elements.
func extractHeaderAttributes(xmlText string) (map[string]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(xmlText))
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("mdx: header XML has no root element")
		}
		if err != nil {
			return nil, fmt.Errorf("mdx: failed to parse header XML: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		attrs := make(map[string]string, len(start.Attr))
		for _, a := range start.Attr {
			attrs[a.Name.Local] = a.Value
		}
		return attrs, nil
	}
}
