package catalog

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

var (
	// ErrMalformedDocument is returned when the input is not well-formed XML.
	ErrMalformedDocument = errors.New("feed is not a well-formed XML document")

	// ErrEmptyCatalog is returned for a well-formed feed without any item.
	// Callers show an empty state rather than a failure.
	ErrEmptyCatalog = errors.New("feed contains no packages")
)

// Feed element names.
const (
	tagItem       = "item"
	tagCacheChk   = "cachechk"
	tagPlatform   = "platform"
	tagPlatformID = "platformID"
	tagLocation   = "location"
	tagSignature  = "signature"
)

// Parse extracts a catalog from a raw feed document.
func Parse(raw []byte) (*Catalog, error) {
	return Extract(bytes.NewReader(raw))
}

// Extract reads a feed document and returns its packages in document order.
//
// Field lookup follows DOM getElementsByTagName semantics: the first
// descendant with the tag name wins and its text content is trimmed. The
// returned error wraps ErrMalformedDocument or ErrEmptyCatalog.
func Extract(r io.Reader) (*Catalog, error) {
	root, err := parseTree(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	items := root.all(tagItem, true)
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		Records: make([]Record, 0, len(items)),
	}
	if stamp := root.first(tagCacheChk, true); stamp != nil {
		c.LastUpdate = strings.TrimSpace(stamp.textContent())
	}
	for _, item := range items {
		c.Records = append(c.Records, extractRecord(item))
	}
	return c, nil
}

func extractRecord(item *element) Record {
	r := Record{
		Name:            item.field("name"),
		Version:         item.field("version"),
		FirmwareVersion: item.field("fwVersion"),
		Description:     item.field("description"),
		Category:        item.field("category"),
		Type:            item.field("type"),
		Maintainer:      item.field("maintainer"),
		Developer:       item.field("developer"),
		PublishedDate:   item.field("publishedDate"),
		InternalName:    item.field("internalName"),
		ChangeLog:       item.field("changeLog"),
		Language:        item.field("language"),
		ForumLink:       item.field("forumLink"),
		TutorialLink:    item.field("tutorialLink"),
		Snapshot:        item.field("snapshot"),
		BannerImage:     item.field("bannerImg"),
	}
	r.Icon = ResolveIcon(item.field("icon100"), item.field("icon80"), r.Name)

	for _, p := range item.all(tagPlatform, false) {
		id := p.field(tagPlatformID)
		loc := p.field(tagLocation)
		if id == "" || loc == "" {
			continue
		}
		r.Platforms = append(r.Platforms, Platform{
			ID:        id,
			URL:       loc,
			Signature: p.field(tagSignature),
		})
	}
	return r
}

// element is a minimal DOM node: an element with ordered text and child
// element content.
type element struct {
	name  string
	nodes []node
}

// node holds either a text run or a child element.
type node struct {
	text string
	elem *element
}

// parseTree decodes a complete document into an element tree rooted at the
// single document element.
func parseTree(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	var (
		root  *element
		stack []*element
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("document has more than one root element")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.nodes = append(parent.nodes, node{elem: el})
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, errors.New("text outside the root element")
				}
				continue
			}
			parent := stack[len(stack)-1]
			parent.nodes = append(parent.nodes, node{text: string(t)})
		}
	}

	if root == nil {
		return nil, errors.New("document has no root element")
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("element <%s> is not closed", stack[len(stack)-1].name)
	}
	return root, nil
}

// field returns the trimmed text of the first descendant named tag, or "".
func (e *element) field(tag string) string {
	if el := e.first(tag, false); el != nil {
		return strings.TrimSpace(el.textContent())
	}
	return ""
}

// first returns the first element named tag in document order.
func (e *element) first(tag string, self bool) *element {
	if self && e.name == tag {
		return e
	}
	for _, n := range e.nodes {
		if n.elem == nil {
			continue
		}
		if found := n.elem.first(tag, true); found != nil {
			return found
		}
	}
	return nil
}

// all returns every element named tag in document order.
func (e *element) all(tag string, self bool) []*element {
	var out []*element
	var walk func(el *element, includeSelf bool)
	walk = func(el *element, includeSelf bool) {
		if includeSelf && el.name == tag {
			out = append(out, el)
		}
		for _, n := range el.nodes {
			if n.elem != nil {
				walk(n.elem, true)
			}
		}
	}
	walk(e, self)
	return out
}

func (e *element) textContent() string {
	var b strings.Builder
	e.writeText(&b)
	return b.String()
}

func (e *element) writeText(b *strings.Builder) {
	for _, n := range e.nodes {
		if n.elem != nil {
			n.elem.writeText(b)
			continue
		}
		b.WriteString(n.text)
	}
}
