package nrbf

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// KnownMetadataFile is the TOML shape accepted by LoadKnownMetadata: one
// [[class]] table per partial class the caller wants to make decodable
// without inline member-type information.
//
//	[[class]]
//	library = "MyAssembly, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null"
//	name = "MyApp.Widget"
//
//	  [[class.member]]
//	  name = "id"
//	  binary_type = "Primitive"
//	  primitive_type = "Int32"
type KnownMetadataFile struct {
	Class []KnownMetadataClass `toml:"class"`
}

// KnownMetadataClass describes one partial class's member schema.
type KnownMetadataClass struct {
	Library string               `toml:"library"`
	Name    string               `toml:"name"`
	Member  []KnownMetadataMember `toml:"member"`
}

// KnownMetadataMember describes one member's wire type.
type KnownMetadataMember struct {
	Name          string `toml:"name"`
	BinaryType    string `toml:"binary_type"`
	PrimitiveType string `toml:"primitive_type"`
	ClassName     string `toml:"class_name"`
	SystemClass   string `toml:"system_class"`
}

// LoadKnownMetadata parses a TOML known-metadata file and registers every
// class it describes against store, so ClassWithMembers/SystemClassWithMembers
// records for those (library, name) pairs can be decoded without inline type
// information.
func LoadKnownMetadata(path string, store *DataStore) error {
	var file KnownMetadataFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return fmt.Errorf("nrbf: reading known-metadata file %q: %w", path, err)
	}

	for _, c := range file.Class {
		lib, err := ParseLibrarySpec(c.Library)
		if err != nil {
			return fmt.Errorf("nrbf: known-metadata class %q: %w", c.Name, err)
		}

		members := make([]Member, len(c.Member))
		for i, m := range c.Member {
			bt, extra, err := parseKnownMember(m)
			if err != nil {
				return fmt.Errorf("nrbf: known-metadata class %q member %q: %w", c.Name, m.Name, err)
			}
			members[i] = Member{Index: i, Name: m.Name, BinaryType: bt, ExtraInfo: extra}
		}

		store.RegisterKnownMetadata(lib, c.Name, members)
	}
	return nil
}

func parseKnownMember(m KnownMetadataMember) (BinaryType, any, error) {
	bt, ok := binaryTypeNames[m.BinaryType]
	if !ok {
		return 0, nil, fmt.Errorf("unknown binary_type %q", m.BinaryType)
	}

	switch bt {
	case BinaryTypePrimitive, BinaryTypePrimitiveArray:
		pt, ok := primitiveTypeNames[m.PrimitiveType]
		if !ok {
			return 0, nil, fmt.Errorf("unknown primitive_type %q", m.PrimitiveType)
		}
		return bt, pt, nil
	case BinaryTypeSystemClass:
		if m.SystemClass == "" {
			return 0, nil, fmt.Errorf("system_class required for BinaryType %q", m.BinaryType)
		}
		return bt, m.SystemClass, nil
	case BinaryTypeClass:
		if m.ClassName == "" {
			return 0, nil, fmt.Errorf("class_name required for BinaryType %q", m.BinaryType)
		}
		return bt, ClassTypeInfo{ClassName: m.ClassName}, nil
	default:
		return bt, nil, nil
	}
}

var binaryTypeNames = map[string]BinaryType{
	"Primitive":      BinaryTypePrimitive,
	"String":         BinaryTypeString,
	"Object":         BinaryTypeObject,
	"SystemClass":    BinaryTypeSystemClass,
	"Class":          BinaryTypeClass,
	"ObjectArray":    BinaryTypeObjectArray,
	"StringArray":    BinaryTypeStringArray,
	"PrimitiveArray": BinaryTypePrimitiveArray,
}

var primitiveTypeNames = map[string]PrimitiveType{
	"Boolean":  PrimitiveBoolean,
	"Byte":     PrimitiveByte,
	"Char":     PrimitiveChar,
	"Decimal":  PrimitiveDecimal,
	"Double":   PrimitiveDouble,
	"Int16":    PrimitiveInt16,
	"Int32":    PrimitiveInt32,
	"Int64":    PrimitiveInt64,
	"SByte":    PrimitiveSByte,
	"Single":   PrimitiveSingle,
	"TimeSpan": PrimitiveTimeSpan,
	"DateTime": PrimitiveDateTime,
	"UInt16":   PrimitiveUInt16,
	"UInt32":   PrimitiveUInt32,
	"UInt64":   PrimitiveUInt64,
	"Null":     PrimitiveNull,
	"String":   PrimitiveString,
}
