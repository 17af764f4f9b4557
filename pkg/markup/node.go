// Package markup defines the structured output model for workflow steps.
// Step handlers assemble a Document of typed nodes instead of concatenating
// strings; renderers turn the node tree into text. The node set is closed:
// adding a variant requires touching every renderer, which is the point —
// the dispatch path fails loudly on an unhandled variant.
package markup

// Node is one structured output element. The set of implementations is
// sealed by the unexported marker method.
type Node interface {
	node()
}

// Text is a plain prose node.
type Text struct {
	Content string
}

// Code is a fenced code block with an optional language hint.
type Code struct {
	Lang    string
	Content string
}

// Raw is the escape hatch: pre-rendered text emitted verbatim.
type Raw struct {
	Content string
}

// Element is a generic tagged element with string attributes and ordered
// children. It bounds how often new variants are needed.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Children []Node
}

// StepHeader announces the step an agent is on.
type StepHeader struct {
	Index int
	Total int
	Title string
}

// Actions is an ordered list of instructions for the agent to perform.
type Actions struct {
	Items []string
}

// Command directs the agent to run a shell command.
type Command struct {
	Line    string
	Comment string
}

// Branch presents outcome routing: which step to request next depending
// on what the agent observed.
type Branch struct {
	Question string
	Options  []BranchOption
}

// BranchOption is one arm of a Branch.
type BranchOption struct {
	When   string
	Target string
}

// Dispatch instructs the agent to delegate work to a named sub-agent.
type Dispatch struct {
	Agent  string
	Prompt string
}

// Guidance is advisory prose the agent should keep in mind but not act on.
type Guidance struct {
	Lines []string
}

func (Text) node()       {}
func (Code) node()       {}
func (Raw) node()        {}
func (Element) node()    {}
func (StepHeader) node() {}
func (Actions) node()    {}
func (Command) node()    {}
func (Branch) node()     {}
func (Dispatch) node()   {}
func (Guidance) node()   {}

// Document is an ordered, immutable list of nodes: one rendered step's output.
type Document struct {
	nodes []Node
}

// NewDocument constructs a Document from the given nodes.
func NewDocument(nodes ...Node) Document {
	ns := make([]Node, len(nodes))
	copy(ns, nodes)
	return Document{nodes: ns}
}

// Nodes returns the document's nodes in order.
func (d Document) Nodes() []Node {
	out := make([]Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// Len returns the number of top-level nodes.
func (d Document) Len() int { return len(d.nodes) }
