package diag

import (
	"fmt"
)

// Code is a compact numeric identifier for every diagnostic the transformer
// can raise. The set is closed: transformation never invents ad-hoc codes.
type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Unsupported constructs (1000-1099): the construct exists in TSL but has
	// no lowering on the configured target.
	UnsupportedKind                        Code = 1001
	UnsupportedProperty                    Code = 1002
	UnsupportedForTarget                   Code = 1003
	UnsupportedOverloadAssignment          Code = 1004
	UnsupportedSelfFunctionConversion      Code = 1005
	UnsupportedNoSelfFunctionConversion    Code = 1006
	UnsupportedFunctionWithoutBody         Code = 1007
	UnsupportedObjectDestructuringInForOf  Code = 1008
	UnsupportedNonDestructuringLuaIterator Code = 1009
	UnsupportedImportType                  Code = 1010
	UnsupportedDefaultExport               Code = 1011
	DefaultImportsNotSupported             Code = 1012

	// Invalid usage (2000-2099): the construct is used in a way the
	// directive table or lowering rules reject.
	InvalidJsonFileContent          Code = 2001
	InvalidDecoratorContext         Code = 2002
	InvalidDecoratorArgumentNumber  Code = 2003
	InvalidExtensionMetaExtension   Code = 2004
	InvalidExtendsExtension         Code = 2005
	InvalidExtendsLuaTable          Code = 2006
	InvalidInstanceOfExtension      Code = 2007
	InvalidInstanceOfLuaTable       Code = 2008
	InvalidAmbientIdentifierName    Code = 2009
	InvalidExportsExtension         Code = 2010
	InvalidExportDeclaration        Code = 2011
	InvalidThrowExpression          Code = 2012
	InvalidForRangeCall             Code = 2013
	InvalidPropertyCall             Code = 2014
	InvalidElementCall              Code = 2015
	InvalidNewExpressionOnExtension Code = 2016

	// Missing pieces (3000-3099).
	MissingClassName      Code = 3001
	MissingMetaExtension  Code = 3002
	MissingFunctionName   Code = 3003
	MissingSourceFile     Code = 3004
	MissingForOfVariables Code = 3005

	// Internal consistency (3100-3199). These indicate transformer bugs
	// rather than bad input and are worded accordingly.
	UndefinedScope              Code = 3101
	UndefinedTypeNode           Code = 3102
	UndefinedFunctionDefinition Code = 3103

	// Forbidden combinations (4000-4099).
	ForbiddenStaticClassPropertyName Code = 4001
	ForbiddenLuaTableUseException    Code = 4002
	ForbiddenLuaTableNonDeclaration  Code = 4003
	ForbiddenLuaTableSetExpression   Code = 4004
	ForbiddenForIn                   Code = 4005
	ForbiddenEllipsisDestruction     Code = 4006

	// Remaining hard errors (5000-5099).
	HeterogeneousEnum           Code = 5001
	UnknownSuperType            Code = 5002
	UnresolvableRequirePath     Code = 5003
	ReferencedBeforeDeclaration Code = 5004
	CouldNotCast                Code = 5005

	// Warnings (6000-6099).
	WarnUnknownDirective          Code = 6001
	WarnDeprecatedDirectiveSyntax Code = 6002
)

// String returns the stable printable form used in golden files and CLI
// output, e.g. "TL2012".
func (c Code) String() string {
	return fmt.Sprintf("TL%04d", uint16(c))
}
