package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// type construction and queries
	TypInfo              Code = 1000
	TypArity             Code = 1001
	TypUnresolvedSymbol  Code = 1002
	TypInvalidBound      Code = 1003
	TypDepthExceeded     Code = 1004
	TypUncheckedConvert  Code = 1005
	TypNotClassType      Code = 1006
	TypSyntax            Code = 1007
	TypIncompatibleTypes Code = 1008

	// overload resolution and inference observations
	InfInfo                  Code = 2000
	InfAmbiguousCall         Code = 2001
	InfNoCompileTimeDecl     Code = 2002
	InfFallbackInvocation    Code = 2003
	InfNoApplicableCandidate Code = 2004

	// classpath manifests
	CpInfo           Code = 3000
	CpSchema         Code = 3001
	CpDuplicateClass Code = 3002
	CpUnknownKey     Code = 3003
	CpBadEntry       Code = 3004
	CpCache          Code = 3005

	// files and configuration
	IOInfo        Code = 4000
	IOLoadFile    Code = 4001
	IOConfig      Code = 4002
	IOBatchSyntax Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	TypInfo:              "Type information",
	TypArity:             "Wrong number of type arguments",
	TypUnresolvedSymbol:  "Unresolved type",
	TypInvalidBound:      "Invalid type bound",
	TypDepthExceeded:     "Type recursion depth exceeded",
	TypUncheckedConvert:  "Unchecked conversion",
	TypNotClassType:      "Not a class or interface type",
	TypSyntax:            "Malformed type expression",
	TypIncompatibleTypes: "Incompatible types",

	InfInfo:                  "Inference information",
	InfAmbiguousCall:         "Ambiguous method call",
	InfNoCompileTimeDecl:     "No compile-time declaration",
	InfFallbackInvocation:    "Fallback invocation type",
	InfNoApplicableCandidate: "No applicable candidates",

	CpInfo:           "Classpath information",
	CpSchema:         "Unsupported manifest schema",
	CpDuplicateClass: "Duplicate class declaration",
	CpUnknownKey:     "Unknown manifest key",
	CpBadEntry:       "Malformed class entry",
	CpCache:          "Classpath cache failure",

	IOInfo:        "I/O information",
	IOLoadFile:    "Failed to load file",
	IOConfig:      "Invalid configuration",
	IOBatchSyntax: "Malformed batch query",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("INF%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
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
