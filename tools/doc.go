// Package tools defines the tour tool surface shared by the MCP server and the agent.
//
// Includes:
//   - ToolDefinition: op, name, description, JSON input schema, side-effect hints, handler.
//   - GenerateSchema[T](), GenerateRawSchema[T](): derive JSON Schema from Go input structs.
//   - Op / ParseOp / Definition: one definition per operation kind.
//   - Tour tools: create_tour, read_tour, list_tours.
//   - Step tools: list_steps, get_step, insert_step, insert_step_by_directory,
//     insert_step_by_line, update_step, remove_step.
//   - Toolset: dispatch by name with tool_exec telemetry; errors surface as toolerr.ToolError.
//
// Every mutating tool loads the tour, applies one edit and saves it; nothing is written on failure.
package tools
