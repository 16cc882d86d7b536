package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Декодирование юнитов
	UnitInfo            Code = 1000
	UnitMalformedRecord Code = 1001
	UnitUnknownKind     Code = 1002
	UnitMissingName     Code = 1003
	UnitBadVisibility   Code = 1004
	UnitBadAttrKind     Code = 1005
	UnitOrphanMember    Code = 1006

	// Слияние фрагментов
	MergeInfo            Code = 2000
	MergeConflict        Code = 2001
	MergeDuplicateMethod Code = 2002

	// Алиасы
	AliasInfo        Code = 3000
	AliasUnresolved  Code = 3001
	AliasShadowed    Code = 3002
	AliasSelfPointer Code = 3003

	// IO
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IOStoreError    Code = 4002

	// Конфигурация
	ConfigInfo              Code = 5000
	ConfigDeprecatedOption  Code = 5001
	ConfigInvalidOption     Code = 5002
	ConfigManifestMalformed Code = 5003
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	UnitInfo:                "Unit information",
	UnitMalformedRecord:     "Malformed unit record",
	UnitUnknownKind:         "Unknown record kind",
	UnitMissingName:         "Record has no name",
	UnitBadVisibility:       "Unknown visibility",
	UnitBadAttrKind:         "Unknown attribute access",
	UnitOrphanMember:        "Member declared outside a namespace",
	MergeInfo:               "Merge information",
	MergeConflict:           "Class and module share a full name",
	MergeDuplicateMethod:    "Duplicate method dropped",
	AliasInfo:               "Alias information",
	AliasUnresolved:         "Alias target not found",
	AliasShadowed:           "Alias name already taken",
	AliasSelfPointer:        "Alias points at itself",
	IOInfo:                  "IO information",
	IOLoadFileError:         "Unable to read unit file",
	IOStoreError:            "Unable to write index",
	ConfigInfo:              "Configuration information",
	ConfigDeprecatedOption:  "Deprecated option",
	ConfigInvalidOption:     "Invalid option",
	ConfigManifestMalformed: "Malformed docket.toml",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("UNT%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("MRG%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("ALS%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
