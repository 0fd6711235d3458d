package ir

// Version constants for definitions and the engine.
const (
	// DefinitionVersion is the machine definition schema version.
	DefinitionVersion = "1"

	// EngineVersion is the simulator engine version.
	EngineVersion = "0.1.0"
)
