package tools

import (
	"fmt"

	"github.com/petasbytes/codetour-mcp/tour"
)

// Op enumerates the tool surface. Every Op has exactly one definition.
type Op int

const (
	OpCreateTour Op = iota
	OpReadTour
	OpListTours
	OpListSteps
	OpGetStep
	OpInsertStep
	OpInsertStepByDirectory
	OpInsertStepByLine
	OpUpdateStep
	OpRemoveStep
	opCount
)

var opNames = [opCount]string{
	OpCreateTour:            "create_tour",
	OpReadTour:              "read_tour",
	OpListTours:             "list_tours",
	OpListSteps:             "list_steps",
	OpGetStep:               "get_step",
	OpInsertStep:            "insert_step",
	OpInsertStepByDirectory: "insert_step_by_directory",
	OpInsertStepByLine:      "insert_step_by_line",
	OpUpdateStep:            "update_step",
	OpRemoveStep:            "remove_step",
}

func (o Op) String() string {
	if o < 0 || o >= opCount {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// ParseOp maps a tool name to its Op.
func ParseOp(name string) (Op, error) {
	for i, n := range opNames {
		if n == name {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", tour.ErrUnknownOperation, name)
}

// Definition returns the definition registered for op.
func Definition(op Op) (ToolDefinition, error) {
	switch op {
	case OpCreateTour:
		return CreateTourDefinition, nil
	case OpReadTour:
		return ReadTourDefinition, nil
	case OpListTours:
		return ListToursDefinition, nil
	case OpListSteps:
		return ListStepsDefinition, nil
	case OpGetStep:
		return GetStepDefinition, nil
	case OpInsertStep:
		return InsertStepDefinition, nil
	case OpInsertStepByDirectory:
		return InsertStepByDirectoryDefinition, nil
	case OpInsertStepByLine:
		return InsertStepByLineDefinition, nil
	case OpUpdateStep:
		return UpdateStepDefinition, nil
	case OpRemoveStep:
		return RemoveStepDefinition, nil
	}
	return ToolDefinition{}, fmt.Errorf("%w: %s", tour.ErrUnknownOperation, op)
}
