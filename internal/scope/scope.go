// Package scope implements the interpreter's variable storage: a stack
// of frames holding scalar and array variables, with upvar-style frame
// aliasing, per spec.md section 4.7.
//
// A frame never stores both a scalar and an array under the same name;
// whichever kind a name is first used as stays fixed until the name is
// unset (matching Tcl's own rule, cross-checked against molt's
// var_stack.rs, which keeps exactly this separation).
package scope

import (
	"github.com/hollowbranch/tecl/internal/ierrors"
	"github.com/hollowbranch/tecl/internal/value"
)

// kind distinguishes which of scalar/array a name is bound as, once
// bound, within a single frame.
type kind int

const (
	kindUnbound kind = iota
	kindScalar
	kindArray
)

// link is what upvar/global install: a name in this frame resolves to a
// name in a different, specific frame instead of its own storage.
type link struct {
	frameIndex int
	name       string
}

type frame struct {
	kinds   map[string]kind
	scalars map[string]value.Value
	arrays  map[string]map[string]value.Value
	links   map[string]link
}

func newFrame() *frame {
	return &frame{
		kinds:   make(map[string]kind),
		scalars: make(map[string]value.Value),
		arrays:  make(map[string]map[string]value.Value),
		links:   make(map[string]link),
	}
}

// Stack is the interpreter's variable storage: frame 0 is the global
// frame, created once and never popped.
type Stack struct {
	frames    []*frame
	overrides []int // CurrentIndex() stack used by `uplevel`
}

// New creates a Stack with just the global frame.
func New() *Stack {
	return &Stack{frames: []*frame{newFrame()}}
}

// Push begins a new local scope (a proc call), returning its frame
// index for use by Uplevel-style level math.
func (s *Stack) Push() int {
	s.frames = append(s.frames, newFrame())
	return len(s.frames) - 1
}

// Pop discards the innermost frame. It must not be called when only the
// global frame remains.
func (s *Stack) Pop() {
	if len(s.frames) <= 1 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth returns the number of frames currently on the stack (>= 1).
func (s *Stack) Depth() int {
	return len(s.frames)
}

// CurrentIndex returns the frame index variable access currently
// resolves against: the innermost pushed frame, or whatever frame
// PushOverride last set, for the duration of an `uplevel` call.
func (s *Stack) CurrentIndex() int {
	if n := len(s.overrides); n > 0 {
		return s.overrides[n-1]
	}
	return len(s.frames) - 1
}

// RealCurrentIndex returns the innermost pushed frame's index, ignoring
// any active PushOverride - the level `uplevel`'s own level-number
// arithmetic is relative to before it installs its override.
func (s *Stack) RealCurrentIndex() int {
	return len(s.frames) - 1
}

// PushOverride makes CurrentIndex report index until the matching
// PopOverride, without actually pushing or popping a frame. `uplevel`
// uses this to run a body as though called from a different point in
// the call stack.
func (s *Stack) PushOverride(index int) {
	s.overrides = append(s.overrides, index)
}

// PopOverride removes the most recent PushOverride.
func (s *Stack) PopOverride() {
	if len(s.overrides) == 0 {
		return
	}
	s.overrides = s.overrides[:len(s.overrides)-1]
}

// resolve follows at most one link hop (Tcl's own upvar does not chain
// transitively through further links) and returns the frame index and
// storage name actually responsible for a variable access.
func (s *Stack) resolve(frameIndex int, name string) (int, string) {
	f := s.frames[frameIndex]
	if l, ok := f.links[name]; ok {
		return l.frameIndex, l.name
	}
	return frameIndex, name
}

func (s *Stack) frameAt(index int) (*frame, error) {
	if index < 0 || index >= len(s.frames) {
		return nil, ierrors.New("bad variable scope level")
	}
	return s.frames[index], nil
}

// --- scalar access --------------------------------------------------------

// GetScalar reads a scalar variable in the current frame (or the frame
// it's linked to).
func (s *Stack) GetScalar(name string) (value.Value, error) {
	return s.GetScalarAt(s.CurrentIndex(), name)
}

// GetScalarAt reads a scalar variable starting resolution from a
// specific frame index; GetScalar calls it with CurrentIndex().
func (s *Stack) GetScalarAt(frameIndex int, name string) (value.Value, error) {
	fi, rn := s.resolve(frameIndex, name)
	f, err := s.frameAt(fi)
	if err != nil {
		return value.Value{}, err
	}
	if f.kinds[rn] == kindArray {
		return value.Value{}, ierrors.New("can't read %q: variable is array", name)
	}
	v, ok := f.scalars[rn]
	if !ok {
		return value.Value{}, ierrors.New("can't read %q: no such variable", name)
	}
	return v, nil
}

// SetScalar writes a scalar variable in the current frame (or the frame
// it's linked to), creating it if absent.
func (s *Stack) SetScalar(name string, v value.Value) error {
	return s.SetScalarAt(s.CurrentIndex(), name, v)
}

// SetScalarAt is SetScalar starting resolution from a specific frame.
func (s *Stack) SetScalarAt(frameIndex int, name string, v value.Value) error {
	fi, rn := s.resolve(frameIndex, name)
	f, err := s.frameAt(fi)
	if err != nil {
		return err
	}
	if f.kinds[rn] == kindArray {
		return ierrors.New("can't set %q: variable is array", name)
	}
	f.kinds[rn] = kindScalar
	f.scalars[rn] = v
	return nil
}

// Unset removes a scalar (or array, if that's what name is bound
// as) from the current frame.
func (s *Stack) Unset(name string) error {
	return s.UnsetAt(s.CurrentIndex(), name)
}

// UnsetAt is Unset starting resolution from a specific frame.
func (s *Stack) UnsetAt(frameIndex int, name string) error {
	origFrame, err := s.frameAt(frameIndex)
	if err != nil {
		return err
	}
	fi, rn := s.resolve(frameIndex, name)
	f, err := s.frameAt(fi)
	if err != nil {
		return err
	}
	if f.kinds[rn] == kindUnbound {
		return ierrors.New("can't unset %q: no such variable", name)
	}
	delete(f.kinds, rn)
	delete(f.scalars, rn)
	delete(f.arrays, rn)
	delete(origFrame.links, name)
	delete(origFrame.kinds, name)
	return nil
}

// Exists reports whether name is bound (scalar or array) in the current
// frame, per the `info exists` query in SPEC_FULL.md.
func (s *Stack) Exists(name string) bool {
	return s.ExistsAt(s.CurrentIndex(), name)
}

// ExistsAt is Exists starting resolution from a specific frame.
func (s *Stack) ExistsAt(frameIndex int, name string) bool {
	fi, rn := s.resolve(frameIndex, name)
	f, err := s.frameAt(fi)
	if err != nil {
		return false
	}
	return f.kinds[rn] != kindUnbound
}

// --- array access ----------------------------------------------------------

// ArrayGet reads one element of an array variable.
func (s *Stack) ArrayGet(name, index string) (value.Value, error) {
	fi, rn := s.resolve(s.CurrentIndex(), name)
	f, err := s.frameAt(fi)
	if err != nil {
		return value.Value{}, err
	}
	if f.kinds[rn] == kindScalar {
		return value.Value{}, ierrors.New("can't read %q: variable is scalar", name)
	}
	elems := f.arrays[rn]
	v, ok := elems[index]
	if !ok {
		return value.Value{}, ierrors.New("can't read %q: no such element in array", name+"("+index+")")
	}
	return v, nil
}

// ArraySet writes one element of an array variable, creating the array
// and/or element if absent.
func (s *Stack) ArraySet(name, index string, v value.Value) error {
	fi, rn := s.resolve(s.CurrentIndex(), name)
	f, err := s.frameAt(fi)
	if err != nil {
		return err
	}
	if f.kinds[rn] == kindScalar {
		return ierrors.New("can't set %q: variable is scalar", name)
	}
	f.kinds[rn] = kindArray
	if f.arrays[rn] == nil {
		f.arrays[rn] = make(map[string]value.Value)
	}
	f.arrays[rn][index] = v
	return nil
}

// ArrayExists reports whether name is currently bound as an array.
func (s *Stack) ArrayExists(name string) bool {
	fi, rn := s.resolve(s.CurrentIndex(), name)
	f, err := s.frameAt(fi)
	if err != nil {
		return false
	}
	return f.kinds[rn] == kindArray
}

// ArraySize returns the number of elements in an array variable (0 if it
// does not exist).
func (s *Stack) ArraySize(name string) int {
	fi, rn := s.resolve(s.CurrentIndex(), name)
	f, err := s.frameAt(fi)
	if err != nil {
		return 0
	}
	return len(f.arrays[rn])
}

// ArrayNames returns the element keys of an array variable, in
// unspecified order (matching Tcl's own `array names`).
func (s *Stack) ArrayNames(name string) []string {
	fi, rn := s.resolve(s.CurrentIndex(), name)
	f, err := s.frameAt(fi)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(f.arrays[rn]))
	for k := range f.arrays[rn] {
		names = append(names, k)
	}
	return names
}

// ArrayUnsetElem removes a single element from an array variable.
func (s *Stack) ArrayUnsetElem(name, index string) error {
	fi, rn := s.resolve(s.CurrentIndex(), name)
	f, err := s.frameAt(fi)
	if err != nil {
		return err
	}
	elems := f.arrays[rn]
	if _, ok := elems[index]; !ok {
		return ierrors.New("can't unset %q: no such element in array", name+"("+index+")")
	}
	delete(elems, index)
	return nil
}

// Names returns every variable name bound (scalar or array, including
// upvar-linked names) in the current frame, per the `info vars` query
// in SPEC_FULL.md.
func (s *Stack) Names() []string {
	f := s.frames[s.CurrentIndex()]
	names := make([]string, 0, len(f.kinds))
	for n := range f.kinds {
		names = append(names, n)
	}
	return names
}

// --- upvar / global ----------------------------------------------------------

// Upvar binds name in the current frame to targetName in the frame at
// targetFrame, per spec.md 4.7. Subsequent Get/Set/Unset/array
// operations on name in the current frame act on the target instead.
func (s *Stack) Upvar(name string, targetFrame int, targetName string) error {
	return s.UpvarAt(s.CurrentIndex(), name, targetFrame, targetName)
}

// UpvarAt installs the link in a specific frame rather than the current
// one; Upvar calls it with CurrentIndex().
func (s *Stack) UpvarAt(frameIndex int, name string, targetFrame int, targetName string) error {
	f, err := s.frameAt(frameIndex)
	if err != nil {
		return err
	}
	if _, err := s.frameAt(targetFrame); err != nil {
		return err
	}
	f.links[name] = link{frameIndex: targetFrame, name: targetName}
	f.kinds[name] = kindUnbound
	return nil
}
