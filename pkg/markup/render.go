package markup

import (
	"fmt"
	"sort"
	"strings"
)

// Renderer converts each node variant to text. One method per variant;
// RenderNode is the only dispatch point.
type Renderer interface {
	Text(Text) string
	Code(Code) string
	Raw(Raw) string
	Element(Element) string
	StepHeader(StepHeader) string
	Actions(Actions) string
	Command(Command) string
	Branch(Branch) string
	Dispatch(Dispatch) string
	Guidance(Guidance) string
}

// RenderNode dispatches n to its variant-specific render method.
// An unknown variant panics: a new node type added without a renderer
// case must surface in tests, not degrade to a best-effort string.
func RenderNode(r Renderer, n Node) string {
	switch n := n.(type) {
	case Text:
		return r.Text(n)
	case Code:
		return r.Code(n)
	case Raw:
		return r.Raw(n)
	case Element:
		return r.Element(n)
	case StepHeader:
		return r.StepHeader(n)
	case Actions:
		return r.Actions(n)
	case Command:
		return r.Command(n)
	case Branch:
		return r.Branch(n)
	case Dispatch:
		return r.Dispatch(n)
	case Guidance:
		return r.Guidance(n)
	default:
		panic(fmt.Sprintf("markup: unhandled node variant %T", n))
	}
}

// Render concatenates the rendered form of every node in the document.
func Render(r Renderer, d Document) string {
	var b strings.Builder
	for _, n := range d.nodes {
		b.WriteString(RenderNode(r, n))
	}
	return b.String()
}

// TagRenderer is the reference Renderer. It emits a bounded tag syntax:
// an open tag with sorted attributes, children, and a close tag, or a
// self-closing tag when there is no content.
type TagRenderer struct{}

func (t TagRenderer) Text(n Text) string {
	return wrap("text", nil, n.Content)
}

func (t TagRenderer) Code(n Code) string {
	attrs := map[string]string{}
	if n.Lang != "" {
		attrs["lang"] = n.Lang
	}
	return wrap("code", attrs, n.Content)
}

func (t TagRenderer) Raw(n Raw) string {
	return n.Content
}

func (t TagRenderer) Element(n Element) string {
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(RenderNode(t, c))
	}
	return wrap(n.Tag, n.Attrs, b.String())
}

func (t TagRenderer) StepHeader(n StepHeader) string {
	return wrap("step", map[string]string{
		"index": fmt.Sprintf("%d", n.Index),
		"total": fmt.Sprintf("%d", n.Total),
	}, n.Title)
}

func (t TagRenderer) Actions(n Actions) string {
	var b strings.Builder
	for _, item := range n.Items {
		b.WriteString(wrap("action", nil, item))
	}
	return wrap("actions", nil, b.String())
}

func (t TagRenderer) Command(n Command) string {
	attrs := map[string]string{}
	if n.Comment != "" {
		attrs["comment"] = n.Comment
	}
	return wrap("command", attrs, n.Line)
}

func (t TagRenderer) Branch(n Branch) string {
	var b strings.Builder
	for _, opt := range n.Options {
		b.WriteString(wrap("option", map[string]string{"when": opt.When}, opt.Target))
	}
	return wrap("branch", map[string]string{"question": n.Question}, b.String())
}

func (t TagRenderer) Dispatch(n Dispatch) string {
	return wrap("dispatch", map[string]string{"agent": n.Agent}, n.Prompt)
}

func (t TagRenderer) Guidance(n Guidance) string {
	return wrap("guidance", nil, strings.Join(n.Lines, "\n"))
}

// wrap emits <tag attr="v">content</tag>, self-closing when content is
// empty. Attributes are sorted so the same node always renders the same.
func wrap(tag string, attrs map[string]string, content string) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%q", k, attrs[k])
	}

	if content == "" {
		b.WriteString("/>")
		return b.String()
	}
	b.WriteString(">")
	b.WriteString(content)
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
	return b.String()
}
