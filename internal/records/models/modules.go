package models

// Module identifies one of the practice exam subject areas.
type Module string

const (
	ModuleLife     Module = "Life"
	ModuleAS       Module = "A&S"
	ModuleSegFunds Module = "Seg Funds"
	ModuleEthics   Module = "Ethics"
)

// requiredModules is the fixed ordered set every completion and guarantee
// rule closes over. Exposed only through RequiredModules so callers cannot
// mutate the shared definition.
var requiredModules = [4]Module{ModuleLife, ModuleAS, ModuleSegFunds, ModuleEthics}

// RequiredModules returns the ordered set of modules a trainee must complete
// before provincial eligibility.
func RequiredModules() []Module {
	out := make([]Module, len(requiredModules))
	copy(out, requiredModules[:])
	return out
}

// RequiredModuleCount is the size of the required set.
const RequiredModuleCount = len(requiredModules)

// IsValid reports whether the module belongs to the required set.
func (m Module) IsValid() bool {
	switch m {
	case ModuleLife, ModuleAS, ModuleSegFunds, ModuleEthics:
		return true
	default:
		return false
	}
}

func (m Module) String() string {
	return string(m)
}
