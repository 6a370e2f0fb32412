package criteria

import (
	"strconv"

	"github.com/schedsim/feedq/service/dao"
)

// FilterByState reports whether an entity in the given state passes the
// supplied parameters. Parameters that do not constrain State are ignored.
func FilterByState(state string, parameters []*dao.Parameter) bool {
	return matchesString(dao.ParamState, state, parameters)
}

// FilterByLevel reports whether an entity at the given queue level passes the
// supplied parameters. Level values are matched against their decimal form.
func FilterByLevel(level int, parameters []*dao.Parameter) bool {
	return matchesString(dao.ParamLevel, strconv.Itoa(level), parameters)
}

// FilterBySimulation reports whether an entity belonging to the given
// simulation passes the supplied parameters.
func FilterBySimulation(simulationID string, parameters []*dao.Parameter) bool {
	return matchesString(dao.ParamSimulationID, simulationID, parameters)
}

// matchesString passes when no parameter carries the name, or when one does
// and the value equals (or is listed in) the parameter value.
func matchesString(name, value string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != name {
			continue
		}
		switch actual := parameter.Value.(type) {
		case string:
			return value == actual
		case []string:
			for _, s := range actual {
				if value == s {
					return true
				}
			}
			return false
		}
	}
	return true
}
