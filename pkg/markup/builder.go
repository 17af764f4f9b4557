package markup

// Builder accumulates nodes into a Document. It is immutable: every add
// method returns a new Builder and leaves the receiver untouched, so
// partially-built fragments can be shared between steps without aliasing.
//
//	doc := markup.NewBuilder().
//		Header(1, 4, "Scan the diff").
//		Actions("run git diff", "note changed packages").
//		Build()
type Builder struct {
	nodes []Node
}

// NewBuilder returns an empty Builder.
func NewBuilder() Builder {
	return Builder{}
}

// with returns a new Builder holding a fresh copy of the accumulated
// nodes plus n. The copy is what makes sharing base builders safe.
func (b Builder) with(n Node) Builder {
	nodes := make([]Node, len(b.nodes), len(b.nodes)+1)
	copy(nodes, b.nodes)
	return Builder{nodes: append(nodes, n)}
}

// Node appends an arbitrary node.
func (b Builder) Node(n Node) Builder { return b.with(n) }

// Text appends a prose node.
func (b Builder) Text(content string) Builder {
	return b.with(Text{Content: content})
}

// Code appends a code block.
func (b Builder) Code(lang, content string) Builder {
	return b.with(Code{Lang: lang, Content: content})
}

// Raw appends pre-rendered text.
func (b Builder) Raw(content string) Builder {
	return b.with(Raw{Content: content})
}

// Element appends a generic tagged element.
func (b Builder) Element(tag string, attrs map[string]string, children ...Node) Builder {
	return b.with(Element{Tag: tag, Attrs: attrs, Children: children})
}

// Header appends a step header.
func (b Builder) Header(index, total int, title string) Builder {
	return b.with(StepHeader{Index: index, Total: total, Title: title})
}

// Actions appends an instruction list.
func (b Builder) Actions(items ...string) Builder {
	return b.with(Actions{Items: items})
}

// Command appends a command directive.
func (b Builder) Command(line, comment string) Builder {
	return b.with(Command{Line: line, Comment: comment})
}

// Branch appends a routing block.
func (b Builder) Branch(question string, options ...BranchOption) Builder {
	return b.with(Branch{Question: question, Options: options})
}

// Dispatch appends a sub-agent dispatch block.
func (b Builder) Dispatch(agent, prompt string) Builder {
	return b.with(Dispatch{Agent: agent, Prompt: prompt})
}

// Guidance appends an advisory block.
func (b Builder) Guidance(lines ...string) Builder {
	return b.with(Guidance{Lines: lines})
}

// Len returns the number of accumulated nodes.
func (b Builder) Len() int { return len(b.nodes) }

// Build collects the accumulated nodes into a Document.
func (b Builder) Build() Document {
	return NewDocument(b.nodes...)
}
