package model

import "fmt"

// DefinitionError reports an inconsistency in the model definition: duplicate
// or unknown ids, dangling node references, zero-length elements, or invalid
// DOF references in supports and loads. Definition errors are detected before
// any solve is attempted and are not recoverable.
type DefinitionError struct {
	Entity string // "node", "element", "material", "section", "load", "support"
	ID     int    // offending entity id, -1 if not applicable
	Reason string
}

func (e *DefinitionError) Error() string {
	if e.ID < 0 {
		return fmt.Sprintf("model: %s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("model: %s %d: %s", e.Entity, e.ID, e.Reason)
}

// Definitionf builds a DefinitionError with a formatted reason. Assemblers
// use it for defects only detectable with resolved geometry, such as
// zero-length elements.
func Definitionf(entity string, id int, format string, args ...interface{}) *DefinitionError {
	return &DefinitionError{Entity: entity, ID: id, Reason: fmt.Sprintf(format, args...)}
}

func defErrf(entity string, id int, format string, args ...interface{}) *DefinitionError {
	return Definitionf(entity, id, format, args...)
}
