package tools

// Registry returns all tool definitions, in Op order.
func Registry() []ToolDefinition {
	defs := make([]ToolDefinition, 0, int(opCount))
	for op := Op(0); op < opCount; op++ {
		def, err := Definition(op)
		if err != nil {
			panic(err)
		}
		defs = append(defs, def)
	}
	return defs
}
