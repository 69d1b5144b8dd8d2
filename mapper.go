package skema

// fieldEntry is one side of a property mapping: the name on the other side and
// the field schema.
type fieldEntry struct {
	name string
	node Node
}

// propertyMapper holds the bidirectional name tables of one ObjectNode.
type propertyMapper struct {
	toInternal map[string]fieldEntry // external -> (internal, node); used by decode
	toExternal map[string]fieldEntry // internal -> (external, node); used by encode
}

// properties returns the memoized mapper, building it on first use. The
// tables are read-only afterwards.
func (n *ObjectNode) properties() *propertyMapper {
	n.mapOnce.Do(func() {
		pm := &propertyMapper{
			toInternal: make(map[string]fieldEntry, len(n.fields)),
			toExternal: make(map[string]fieldEntry, len(n.fields)),
		}
		for _, f := range n.fields {
			pm.toInternal[f.External] = fieldEntry{name: f.Internal, node: f.Node}
			pm.toExternal[f.Internal] = fieldEntry{name: f.External, node: f.Node}
		}
		n.mapper = pm
	})
	return n.mapper
}

// ExternalName maps an internal record name to its wire name.
func (n *ObjectNode) ExternalName(internal string) (string, bool) {
	e, ok := n.properties().toExternal[internal]
	return e.name, ok
}

// InternalName maps a wire name to its record name.
func (n *ObjectNode) InternalName(external string) (string, bool) {
	e, ok := n.properties().toInternal[external]
	return e.name, ok
}
