// Package aspect weaves advice around existing functions without touching
// their source. Advice runs before a target, after it, or around it with full
// control over whether the target executes. Targets are either standalone
// functions, whose woven replacement is returned to the caller, or named
// members of an Object or struct, which are replaced in place.
package aspect
