package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// artifact store
	IOMetadataNotFound Code = 4001
	IOArtifactDecode   Code = 4002

	// dependency resolution
	ProjImportCycle     Code = 5001
	ProjDepthExceeded   Code = 5002
	ProjImportNoLiteral Code = 5003
	ProjDuplicatePath   Code = 5004
	ProjPathConflict    Code = 5005
	ProjMissingImport   Code = 5006
)

var codeDescription = map[Code]string{
	UnknownCode:         "Unknown error",
	IOMetadataNotFound:  "Compiled metadata not found",
	IOArtifactDecode:    "Malformed build artifact",
	ProjImportCycle:     "Import cycle",
	ProjDepthExceeded:   "Import chain too deep",
	ProjImportNoLiteral: "Import without path literal",
	ProjDuplicatePath:   "Duplicate source path",
	ProjPathConflict:    "File used as directory",
	ProjMissingImport:   "Import of unknown file",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
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
