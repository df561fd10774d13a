package workflow

import "sort"

// Node is one workflow node. ID and Name are unique within a graph; other
// structures reference nodes by name only (weak references, no ownership).
type Node struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Type        string         `json:"type" yaml:"type"`
	TypeVersion int            `json:"typeVersion" yaml:"typeVersion"`
	Position    [2]int         `json:"position" yaml:"position"`
	Parameters  map[string]any `json:"parameters" yaml:"parameters"`
}

// Link is one incoming endpoint of a connection: the target node name, the
// port kind on the target ("main") and the target input index.
type Link struct {
	Node  string `json:"node" yaml:"node"`
	Type  string `json:"type" yaml:"type"`
	Index int    `json:"index" yaml:"index"`
}

// Ports maps an output port name to its outputs. The outer slice index is
// the output index on the source node: conditional nodes keep their true
// branch at index 0 and their false branch at index 1.
type Ports map[string][][]Link

// MainPort is the only port name the modeled node subset uses.
const MainPort = "main"

// Workflow is the complete generated graph.
type Workflow struct {
	Name        string           `json:"name" yaml:"name"`
	Nodes       []*Node          `json:"nodes" yaml:"nodes"`
	Connections map[string]Ports `json:"connections" yaml:"connections"`
	Active      bool             `json:"active" yaml:"active"`
	Settings    map[string]any   `json:"settings" yaml:"settings"`
}

// NodeByName returns the node with the given display name, or nil.
func (w *Workflow) NodeByName(name string) *Node {
	for _, n := range w.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// NodeByID returns the node with the given id, or nil.
func (w *Workflow) NodeByID(id string) *Node {
	for _, n := range w.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Connect adds a directed edge from the named source node's output port
// (at the given output index) to the named target node's input index.
// Missing intermediate structures are created on demand.
func (w *Workflow) Connect(from string, output int, to string, input int) {
	if w.Connections == nil {
		w.Connections = make(map[string]Ports)
	}
	ports, ok := w.Connections[from]
	if !ok {
		ports = make(Ports)
		w.Connections[from] = ports
	}
	outputs := ports[MainPort]
	for len(outputs) <= output {
		outputs = append(outputs, []Link{})
	}
	outputs[output] = append(outputs[output], Link{Node: to, Type: MainPort, Index: input})
	ports[MainPort] = outputs
}

// Edge is a flattened connection endpoint pair for graph analysis.
type Edge struct {
	From   string
	To     string
	Output int
}

// Edges returns every connection as a flat (from, to) list, iterating
// nodes in declaration order so output is deterministic. Connections keyed
// by names that match no node are included last, sorted by name, so
// validation can still see them.
func (w *Workflow) Edges() []Edge {
	var out []Edge
	seen := make(map[string]bool, len(w.Nodes))
	for _, n := range w.Nodes {
		seen[n.Name] = true
		out = append(out, w.edgesFrom(n.Name)...)
	}

	var stray []string
	for from := range w.Connections {
		if !seen[from] {
			stray = append(stray, from)
		}
	}
	sort.Strings(stray)
	for _, from := range stray {
		out = append(out, w.edgesFrom(from)...)
	}
	return out
}

func (w *Workflow) edgesFrom(name string) []Edge {
	ports, ok := w.Connections[name]
	if !ok {
		return nil
	}
	var out []Edge
	for output, links := range ports[MainPort] {
		for _, link := range links {
			out = append(out, Edge{From: name, To: link.Node, Output: output})
		}
	}
	return out
}

// ConnectionCount returns the total number of links in the graph.
func (w *Workflow) ConnectionCount() int {
	count := 0
	for _, ports := range w.Connections {
		for _, outputs := range ports {
			for _, links := range outputs {
				count += len(links)
			}
		}
	}
	return count
}
