package graph

import (
	"encoding/json"
	"strings"
)

type jsonPortRef struct {
	Process string `json:"process"`
	Port    string `json:"port"`
	Index   *int   `json:"index,omitempty"`
}

type jsonConnection struct {
	Src      *jsonPortRef   `json:"src,omitempty"`
	Tgt      jsonPortRef    `json:"tgt"`
	Data     *rawAny        `json:"data,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// rawAny lets jsonConnection distinguish an explicit null/absent "data"
// field (no IIP) from a present-but-nil data value.
type rawAny struct {
	Value any
}

func (r *rawAny) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &r.Value)
}

func (r rawAny) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Value)
}

type jsonExportedPort struct {
	Process  string         `json:"process"`
	Port     string         `json:"port"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// legacyExport is the pre-0.5 "exports" list form: {"public":, "process":,
// "port":}, superseded by the separate "inports"/"outports" maps but still
// accepted on load.
type legacyExport struct {
	Public  string `json:"public"`
	Private string `json:"private"`
	Process string `json:"process"`
	Port    string `json:"port"`
}

type jsonGroup struct {
	Name     string         `json:"name"`
	Nodes    []string       `json:"nodes"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type jsonNode struct {
	Component string         `json:"component"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type jsonGraph struct {
	CaseSensitive bool                        `json:"caseSensitive,omitempty"`
	Properties    map[string]any              `json:"properties,omitempty"`
	Inports       map[string]jsonExportedPort `json:"inports,omitempty"`
	Outports      map[string]jsonExportedPort `json:"outports,omitempty"`
	Groups        []jsonGroup                 `json:"groups,omitempty"`
	Processes     map[string]jsonNode         `json:"processes,omitempty"`
	Connections   []jsonConnection            `json:"connections,omitempty"`
	Exports       []legacyExport              `json:"exports,omitempty"`
}

// Load parses the NoFlo graph JSON wire format into a new Graph. Port
// names are folded to lowercase on read, matching the reference runtime's
// case-insensitive port addressing. Every entry of the legacy "exports"
// list is migrated into Inports; none is added to Outports, since the
// legacy format predates outport exports entirely.
func Load(data []byte, name string) (*Graph, error) {
	var jg jsonGraph
	if err := json.Unmarshal(data, &jg); err != nil {
		return nil, err
	}

	g := New(name)
	if err := g.StartTransaction("loadJSON", nil); err != nil {
		return nil, err
	}
	defer g.EndTransaction("loadJSON", nil)

	for k, v := range jg.Properties {
		if k == "name" {
			if s, ok := v.(string); ok && s != "" {
				g.Name = s
			}
			continue
		}
		g.Properties[k] = v
	}

	for id, n := range jg.Processes {
		g.Nodes.Add(id, n.Component, n.Metadata)
	}

	for _, conn := range jg.Connections {
		tgt := conn.Tgt
		tgt.Port = strings.ToLower(tgt.Port)
		if conn.Data != nil {
			g.Initials.AddIndex(conn.Data.Value, tgt.Process, tgt.Port, tgt.Index, conn.Metadata)
			continue
		}
		if conn.Src == nil {
			continue
		}
		src := *conn.Src
		src.Port = strings.ToLower(src.Port)
		g.Edges.AddIndex(src.Process, src.Port, src.Index, tgt.Process, tgt.Port, tgt.Index, conn.Metadata)
	}

	for public, e := range jg.Inports {
		g.Inports.Add(public, e.Process, strings.ToLower(e.Port), e.Metadata)
	}
	for public, e := range jg.Outports {
		g.Outports.Add(public, e.Process, strings.ToLower(e.Port), e.Metadata)
	}
	for _, e := range jg.Exports {
		public := e.Public
		if public == "" {
			public = e.Private
		}
		g.Inports.Add(public, e.Process, strings.ToLower(e.Port), nil)
	}

	for _, grp := range jg.Groups {
		g.Groups.Add(grp.Name, grp.Nodes, grp.Metadata)
	}

	return g, nil
}

// ToJSON serializes the graph to the NoFlo graph JSON wire format.
func (g *Graph) ToJSON() ([]byte, error) {
	props := make(map[string]any, len(g.Properties)+1)
	for k, v := range g.Properties {
		props[k] = v
	}
	if g.Name != "" {
		props["name"] = g.Name
	}

	jg := jsonGraph{
		CaseSensitive: true,
		Properties:    props,
		Inports:       make(map[string]jsonExportedPort),
		Outports:      make(map[string]jsonExportedPort),
		Processes:     make(map[string]jsonNode),
	}

	for _, id := range g.Nodes.Sorted() {
		n := g.Nodes.Get(id)
		jg.Processes[id] = jsonNode{Component: n.Component, Metadata: map[string]any(n.Metadata)}
	}

	for _, e := range g.Edges.List() {
		jg.Connections = append(jg.Connections, jsonConnection{
			Src:      &jsonPortRef{Process: e.Src.Node, Port: e.Src.Port, Index: e.Src.Index},
			Tgt:      jsonPortRef{Process: e.Tgt.Node, Port: e.Tgt.Port, Index: e.Tgt.Index},
			Metadata: map[string]any(e.Metadata),
		})
	}
	for _, in := range g.Initials.List() {
		jg.Connections = append(jg.Connections, jsonConnection{
			Tgt:      jsonPortRef{Process: in.Tgt.Node, Port: in.Tgt.Port, Index: in.Tgt.Index},
			Data:     &rawAny{Value: in.Data},
			Metadata: map[string]any(in.Metadata),
		})
	}

	for _, e := range g.Inports.List() {
		jg.Inports[e.Public] = jsonExportedPort{Process: e.Process, Port: e.Port, Metadata: map[string]any(e.Metadata)}
	}
	for _, e := range g.Outports.List() {
		jg.Outports[e.Public] = jsonExportedPort{Process: e.Process, Port: e.Port, Metadata: map[string]any(e.Metadata)}
	}

	for _, grp := range g.Groups.List() {
		jg.Groups = append(jg.Groups, jsonGroup{Name: grp.Name, Nodes: grp.Nodes, Metadata: map[string]any(grp.Metadata)})
	}

	return json.MarshalIndent(jg, "", "  ")
}
