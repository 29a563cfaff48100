package nrbf

import (
	"fmt"
	"strconv"
	"strings"
)

// SystemLibraryId is the sentinel stream-local library id for the canonical
// System library, used by SystemClassWithMembers[AndTypes] records which
// have no explicit library reference on the wire.
const SystemLibraryId int32 = -1

// Version is a four-part dotted version number, e.g. "1.2.3.4".
type Version struct {
	Major, Minor, Build, Revision uint16
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// LibraryOptions holds the optional, order-independent components of a
// library specification string beyond its name.
type LibraryOptions struct {
	Version        *Version
	Culture        string
	PublicKeyToken string
	Retargetable   *bool
}

// Library identifies the .NET assembly a class name is qualified against.
// Equality and hashing are defined over (Name, Version) per the format spec.
type Library struct {
	Name    string
	Options LibraryOptions
}

// Key returns the (name, version) identity used for registry lookups.
func (l Library) Key() string {
	if l.Options.Version != nil {
		return l.Name + "@" + l.Options.Version.String()
	}
	return l.Name
}

// systemLibrary is the canonical library implied by SystemClass records.
var systemLibrary = Library{Name: "System"}

// Spec renders the assembly-qualified specification string a BinaryLibrary
// record carries on the wire, the inverse of ParseLibrarySpec.
func (l Library) Spec() string {
	s := l.Name
	if l.Options.Version != nil {
		s += ", Version=" + l.Options.Version.String()
	}
	if l.Options.Culture != "" {
		s += ", Culture=" + l.Options.Culture
	}
	if l.Options.PublicKeyToken != "" {
		s += ", PublicKeyToken=" + l.Options.PublicKeyToken
	}
	if l.Options.Retargetable != nil {
		if *l.Options.Retargetable {
			s += ", Retargetable=Yes"
		} else {
			s += ", Retargetable=No"
		}
	}
	return s
}

// ParseLibrarySpec parses a .NET assembly-qualified library specification
// string such as:
//
//	MyAssembly, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null
//
// tolerating extra whitespace around commas and '='. Unknown options are
// rejected.
func ParseLibrarySpec(spec string) (Library, error) {
	parts := strings.Split(spec, ",")
	if len(parts) == 0 {
		return Library{}, fmt.Errorf("nrbf: empty library specification")
	}

	lib := Library{Name: strings.TrimSpace(parts[0])}
	if lib.Name == "" {
		return Library{}, fmt.Errorf("nrbf: library specification has no name: %q", spec)
	}

	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return Library{}, fmt.Errorf("nrbf: malformed library option %q", part)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch strings.ToLower(key) {
		case "version":
			v, err := parseVersion(value)
			if err != nil {
				return Library{}, err
			}
			lib.Options.Version = &v
		case "culture":
			if err := validateCulture(value); err != nil {
				return Library{}, err
			}
			lib.Options.Culture = value
		case "publickeytoken":
			if err := validatePublicKeyToken(value); err != nil {
				return Library{}, err
			}
			lib.Options.PublicKeyToken = value
		case "retargetable":
			b, err := parseRetargetable(value)
			if err != nil {
				return Library{}, err
			}
			lib.Options.Retargetable = &b
		default:
			return Library{}, fmt.Errorf("nrbf: unknown library option %q", key)
		}
	}

	return lib, nil
}

func parseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return Version{}, fmt.Errorf("nrbf: invalid version %q: expected 4 dot-separated parts", s)
	}
	var v Version
	fields := []*uint16{&v.Major, &v.Minor, &v.Build, &v.Revision}
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return Version{}, fmt.Errorf("nrbf: invalid version %q: %w", s, err)
		}
		*fields[i] = uint16(n)
	}
	return v, nil
}

func validateCulture(s string) error {
	if s == "neutral" {
		return nil
	}
	tokens := strings.Split(s, "-")
	for _, tok := range tokens {
		if len(tok) < 1 || len(tok) > 8 {
			return fmt.Errorf("nrbf: invalid culture %q", s)
		}
		for _, r := range tok {
			if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
				return fmt.Errorf("nrbf: invalid culture %q", s)
			}
		}
	}
	return nil
}

func validatePublicKeyToken(s string) error {
	if s == "null" {
		return nil
	}
	if len(s) != 16 {
		return fmt.Errorf("nrbf: invalid public key token %q", s)
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') && (r < 'A' || r > 'F') {
			return fmt.Errorf("nrbf: invalid public key token %q", s)
		}
	}
	return nil
}

func parseRetargetable(s string) (bool, error) {
	switch s {
	case "Yes":
		return true, nil
	case "No":
		return false, nil
	default:
		return false, fmt.Errorf("nrbf: invalid Retargetable value %q", s)
	}
}
