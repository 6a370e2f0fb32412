package dao

import "strconv"

// Well-known parameter names understood by the criteria matchers.
const (
	ParamState        = "State"
	ParamLevel        = "Level"
	ParamSimulationID = "SimulationID"
)

// Parameter narrows List results to entities matching a named attribute.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter builds a filter parameter. A single value matches by
// equality, multiple values match any of them.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}

// ByState filters by entity state.
func ByState(states ...string) *Parameter {
	return NewParameter(ParamState, states...)
}

// ByLevel filters by queue level, matched in decimal form.
func ByLevel(levels ...int) *Parameter {
	values := make([]string, 0, len(levels))
	for _, level := range levels {
		values = append(values, strconv.Itoa(level))
	}
	return NewParameter(ParamLevel, values...)
}

// BySimulation filters by owning simulation.
func BySimulation(simulationID string) *Parameter {
	return NewParameter(ParamSimulationID, simulationID)
}
