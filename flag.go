package keyvalues3

// FlagSet is a bit set over KV3's eight value-level flags. The in-memory
// model is general (multiple bits may be set) for extensibility, but every
// binary variant persists at most one flag per value; writers targeting
// those variants fail cleanly if asked to persist more than one (§4.9).
type FlagSet uint16

const (
	FlagResource FlagSet = 1 << iota
	FlagResourceName
	FlagPanorama
	FlagSoundEvent
	FlagSubClass
	FlagEntityName
	FlagMultiLineString
	FlagLocalize
)

var flagNames = [...]struct {
	bit  FlagSet
	name string
}{
	{FlagResource, "resource"},
	{FlagResourceName, "resource_name"},
	{FlagPanorama, "panorama"},
	{FlagSoundEvent, "soundevent"},
	{FlagSubClass, "subclass"},
	{FlagEntityName, "entityname"},
	{FlagMultiLineString, "multilinestring"},
	{FlagLocalize, "localize"},
}

// Has reports whether every bit in want is set in f.
func (f FlagSet) Has(want FlagSet) bool {
	return f&want == want
}

// Single reports whether exactly one bit is set, and returns it.
func (f FlagSet) Single() (FlagSet, bool) {
	if f == 0 || f&(f-1) != 0 {
		return 0, false
	}

	return f, true
}

// String renders the set as its declaration-order, pipe-joined names, e.g.
// "resource|subclass", matching the text grammar's flag_prefixed_value.
func (f FlagSet) String() string {
	if f == 0 {
		return ""
	}

	s := ""
	for _, e := range flagNames {
		if f&e.bit != 0 {
			if s != "" {
				s += "|"
			}
			s += e.name
		}
	}

	return s
}
