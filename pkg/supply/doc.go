// Package supply defines the controllable supply abstraction used by the
// sequencer, along with a provider registry for resolving supplies by name.
//
// A Supply is a single physical or logical voltage source: it can be asked
// to constrain its output to a voltage window and to switch on or off. The
// sequencer treats supplies as opaque collaborators; their actual switching
// mechanics (PMIC registers, GPIO lines, bench instruments) live behind the
// interface.
//
// A Provider resolves supply names to handles at rail construction time.
// The in-memory Registry is the standard provider: applications register
// their supplies, then hand the registry to the sequencer or controller.
// The registry is always passed explicitly - there is no package-level
// default instance.
package supply
