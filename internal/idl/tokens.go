package idl

import "strconv"

// TokenType enumerates every lexeme kind across all three surface syntaxes.
type TokenType uint16

const (
	TokenTypeUnknown TokenType = iota
	TokenTypeIdentifier
	TokenTypeIntegerDecimal
	TokenTypeIntegerHex
	TokenTypeIntegerBinary
	TokenTypeFloatDecimal
	TokenTypeText
	TokenTypeComment
	TokenTypeNewline
	TokenTypeEOF
	TokenTypeLevelMarker
	TokenTypeCurlyOpen
	TokenTypeCurlyClose
	TokenTypeSquareOpen
	TokenTypeSquareClose
	TokenTypeParenOpen
	TokenTypeParenClose
	TokenTypeComma
	TokenTypeSemicolon
	TokenTypeColon
	TokenTypeColonEqual
	TokenTypeDot
	TokenTypeDotDot
	TokenTypeDotDotEqual
	TokenTypeQuestion
	TokenTypeQuestionQuestion
	TokenTypeQuestionQuestionEqual
	TokenTypeAt
	TokenTypeFatArrow
	TokenTypeThinArrow
	TokenTypePlus
	TokenTypePlusEqual
	TokenTypePlusPlus
	TokenTypeMinus
	TokenTypeMinusEqual
	TokenTypeMinusMinus
	TokenTypeStar
	TokenTypeMultiplyEqual
	TokenTypePower
	TokenTypePowerEqual
	TokenTypeSlash
	TokenTypeDivideEqual
	TokenTypePercent
	TokenTypePercentEqual
	TokenTypeCaret
	TokenTypeCaretEqual
	TokenTypeAmpersand
	TokenTypeAmpersandEqual
	TokenTypeBinAnd
	TokenTypePipe
	TokenTypePipeEqual
	TokenTypeBinOr
	TokenTypeTilde
	TokenTypeExclamation
	TokenTypeEqual
	TokenTypeComparison
	TokenTypeNotComparison
	TokenTypeAngleOpen
	TokenTypeLesserEqual
	TokenTypeShiftLeft
	TokenTypeShiftLeftEqual
	TokenTypeAngleClose
	TokenTypeGreaterEqual
	TokenTypeElementOf
	TokenTypeNotElementOf
	TokenTypeKeywordIf
	TokenTypeKeywordElse
	TokenTypeKeywordWhile
	TokenTypeKeywordFor
	TokenTypeKeywordReturn
	TokenTypeKeywordBreak
	TokenTypeKeywordContinue
	TokenTypeKeywordThrow
	TokenTypeKeywordTry
	TokenTypeKeywordCatch
	TokenTypeKeywordFinally
	TokenTypeKeywordTrue
	TokenTypeKeywordFalse
	TokenTypeKeywordNull
	TokenTypeKeywordIn
	TokenTypeKeywordFunction
	TokenTypeKeywordNew
	TokenTypeKeywordThen
	TokenTypeKeywordOtherwise
	TokenTypeKeywordEnd
	TokenTypeKeywordEach
	TokenTypeKeywordRepeat
	TokenTypeKeywordTimes
	TokenTypeKeywordIterate
	TokenTypeKeywordFrom
	TokenTypeKeywordThrough
	TokenTypeKeywordStep
	TokenTypeKeywordPrint
	TokenTypeKeywordDefine
	TokenTypeKeywordTaking
	TokenTypeKeywordAnd
	TokenTypeKeywordOr
	TokenTypeKeywordNot
	TokenTypeKeywordIs
	TokenTypeKeywordWith
	TokenTypeKeywordSet
	TokenTypeKeywordTo
	TokenTypeKeywordDo
	TokenTypeKeywordVar
	TokenTypeKeywordLet
	TokenTypeKeywordConst
	TokenTypeKeywordSwitch
	TokenTypeKeywordCase
	TokenTypeKeywordDefault
	TokenTypeKeywordClass
	TokenTypeKeywordStruct
	TokenTypeKeywordInterface
	TokenTypeKeywordEnum
	TokenTypeKeywordNamespace
	TokenTypeKeywordUsing
	TokenTypeKeywordPublic
	TokenTypeKeywordPrivate
	TokenTypeKeywordProtected
	TokenTypeKeywordInternal
	TokenTypeKeywordStatic
	TokenTypeKeywordAbstract
	TokenTypeKeywordVirtual
	TokenTypeKeywordOverride
	TokenTypeKeywordReadonly
	TokenTypeKeywordSealed
	TokenTypeKeywordForeach
	TokenTypeKeywordMatch
	TokenTypeKeywordWhen
	TokenTypeKeywordAs
	TokenTypeKeywordUnion
	TokenTypeKeywordFn
)

var tokenTypeNames = map[TokenType]string{
	TokenTypeUnknown:               "Unknown",
	TokenTypeIdentifier:            "Identifier",
	TokenTypeIntegerDecimal:        "IntegerDecimal",
	TokenTypeIntegerHex:            "IntegerHex",
	TokenTypeIntegerBinary:         "IntegerBinary",
	TokenTypeFloatDecimal:          "FloatDecimal",
	TokenTypeText:                  "Text",
	TokenTypeComment:               "Comment",
	TokenTypeNewline:               "Newline",
	TokenTypeEOF:                   "EOF",
	TokenTypeLevelMarker:           "LevelMarker",
	TokenTypeCurlyOpen:             "CurlyOpen",
	TokenTypeCurlyClose:            "CurlyClose",
	TokenTypeSquareOpen:            "SquareOpen",
	TokenTypeSquareClose:           "SquareClose",
	TokenTypeParenOpen:             "ParenOpen",
	TokenTypeParenClose:            "ParenClose",
	TokenTypeComma:                 "Comma",
	TokenTypeSemicolon:             "Semicolon",
	TokenTypeColon:                 "Colon",
	TokenTypeColonEqual:            "ColonEqual",
	TokenTypeDot:                   "Dot",
	TokenTypeDotDot:                "DotDot",
	TokenTypeDotDotEqual:           "DotDotEqual",
	TokenTypeQuestion:              "Question",
	TokenTypeQuestionQuestion:      "QuestionQuestion",
	TokenTypeQuestionQuestionEqual: "QuestionQuestionEqual",
	TokenTypeAt:                    "At",
	TokenTypeFatArrow:              "FatArrow",
	TokenTypeThinArrow:             "ThinArrow",
	TokenTypePlus:                  "Plus",
	TokenTypePlusEqual:             "PlusEqual",
	TokenTypePlusPlus:              "PlusPlus",
	TokenTypeMinus:                 "Minus",
	TokenTypeMinusEqual:            "MinusEqual",
	TokenTypeMinusMinus:            "MinusMinus",
	TokenTypeStar:                  "Star",
	TokenTypeMultiplyEqual:         "MultiplyEqual",
	TokenTypePower:                 "Power",
	TokenTypePowerEqual:            "PowerEqual",
	TokenTypeSlash:                 "Slash",
	TokenTypeDivideEqual:           "DivideEqual",
	TokenTypePercent:               "Percent",
	TokenTypePercentEqual:          "PercentEqual",
	TokenTypeCaret:                 "Caret",
	TokenTypeCaretEqual:            "CaretEqual",
	TokenTypeAmpersand:             "Ampersand",
	TokenTypeAmpersandEqual:        "AmpersandEqual",
	TokenTypeBinAnd:                "BinAnd",
	TokenTypePipe:                  "Pipe",
	TokenTypePipeEqual:             "PipeEqual",
	TokenTypeBinOr:                 "BinOr",
	TokenTypeTilde:                 "Tilde",
	TokenTypeExclamation:           "Exclamation",
	TokenTypeEqual:                 "Equal",
	TokenTypeComparison:            "Comparison",
	TokenTypeNotComparison:         "NotComparison",
	TokenTypeAngleOpen:             "AngleOpen",
	TokenTypeLesserEqual:           "LesserEqual",
	TokenTypeShiftLeft:             "ShiftLeft",
	TokenTypeShiftLeftEqual:        "ShiftLeftEqual",
	TokenTypeAngleClose:            "AngleClose",
	TokenTypeGreaterEqual:          "GreaterEqual",
	TokenTypeElementOf:             "ElementOf",
	TokenTypeNotElementOf:          "NotElementOf",
	TokenTypeKeywordIf:             "KeywordIf",
	TokenTypeKeywordElse:           "KeywordElse",
	TokenTypeKeywordWhile:          "KeywordWhile",
	TokenTypeKeywordFor:            "KeywordFor",
	TokenTypeKeywordReturn:         "KeywordReturn",
	TokenTypeKeywordBreak:          "KeywordBreak",
	TokenTypeKeywordContinue:       "KeywordContinue",
	TokenTypeKeywordThrow:          "KeywordThrow",
	TokenTypeKeywordTry:            "KeywordTry",
	TokenTypeKeywordCatch:          "KeywordCatch",
	TokenTypeKeywordFinally:        "KeywordFinally",
	TokenTypeKeywordTrue:           "KeywordTrue",
	TokenTypeKeywordFalse:          "KeywordFalse",
	TokenTypeKeywordNull:           "KeywordNull",
	TokenTypeKeywordIn:             "KeywordIn",
	TokenTypeKeywordFunction:       "KeywordFunction",
	TokenTypeKeywordNew:            "KeywordNew",
	TokenTypeKeywordThen:           "KeywordThen",
	TokenTypeKeywordOtherwise:      "KeywordOtherwise",
	TokenTypeKeywordEnd:            "KeywordEnd",
	TokenTypeKeywordEach:           "KeywordEach",
	TokenTypeKeywordRepeat:         "KeywordRepeat",
	TokenTypeKeywordTimes:          "KeywordTimes",
	TokenTypeKeywordIterate:        "KeywordIterate",
	TokenTypeKeywordFrom:           "KeywordFrom",
	TokenTypeKeywordThrough:        "KeywordThrough",
	TokenTypeKeywordStep:           "KeywordStep",
	TokenTypeKeywordPrint:          "KeywordPrint",
	TokenTypeKeywordDefine:         "KeywordDefine",
	TokenTypeKeywordTaking:         "KeywordTaking",
	TokenTypeKeywordAnd:            "KeywordAnd",
	TokenTypeKeywordOr:             "KeywordOr",
	TokenTypeKeywordNot:            "KeywordNot",
	TokenTypeKeywordIs:             "KeywordIs",
	TokenTypeKeywordWith:           "KeywordWith",
	TokenTypeKeywordSet:            "KeywordSet",
	TokenTypeKeywordTo:             "KeywordTo",
	TokenTypeKeywordDo:             "KeywordDo",
	TokenTypeKeywordVar:            "KeywordVar",
	TokenTypeKeywordLet:            "KeywordLet",
	TokenTypeKeywordConst:          "KeywordConst",
	TokenTypeKeywordSwitch:         "KeywordSwitch",
	TokenTypeKeywordCase:           "KeywordCase",
	TokenTypeKeywordDefault:        "KeywordDefault",
	TokenTypeKeywordClass:          "KeywordClass",
	TokenTypeKeywordStruct:         "KeywordStruct",
	TokenTypeKeywordInterface:      "KeywordInterface",
	TokenTypeKeywordEnum:           "KeywordEnum",
	TokenTypeKeywordNamespace:      "KeywordNamespace",
	TokenTypeKeywordUsing:          "KeywordUsing",
	TokenTypeKeywordPublic:         "KeywordPublic",
	TokenTypeKeywordPrivate:        "KeywordPrivate",
	TokenTypeKeywordProtected:      "KeywordProtected",
	TokenTypeKeywordInternal:       "KeywordInternal",
	TokenTypeKeywordStatic:         "KeywordStatic",
	TokenTypeKeywordAbstract:       "KeywordAbstract",
	TokenTypeKeywordVirtual:        "KeywordVirtual",
	TokenTypeKeywordOverride:       "KeywordOverride",
	TokenTypeKeywordReadonly:       "KeywordReadonly",
	TokenTypeKeywordSealed:         "KeywordSealed",
	TokenTypeKeywordForeach:        "KeywordForeach",
	TokenTypeKeywordMatch:          "KeywordMatch",
	TokenTypeKeywordWhen:           "KeywordWhen",
	TokenTypeKeywordAs:             "KeywordAs",
	TokenTypeKeywordUnion:          "KeywordUnion",
	TokenTypeKeywordFn:             "KeywordFn",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "TokenType(" + strconv.Itoa(int(t)) + ")"
}

// ParseTokenType is the inverse of TokenType.String.
func ParseTokenType(name string) (TokenType, bool) {
	for t, n := range tokenTypeNames {
		if n == name {
			return t, true
		}
	}
	return TokenTypeUnknown, false
}

type levelMask uint8

const (
	levelHigh levelMask = 1 << iota
	levelMedium
	levelLow

	levelsStructured = levelMedium | levelLow
	levelsAll        = levelHigh | levelMedium | levelLow
)

type keyword struct {
	kind   TokenType
	levels levelMask
}

// keywords lists every reserved word together with the levels that reserve
// it. A word reserved only by other levels is an ordinary identifier.
var keywords = map[string]keyword{
	"if":        {TokenTypeKeywordIf, levelsAll},
	"else":      {TokenTypeKeywordElse, levelsAll},
	"while":     {TokenTypeKeywordWhile, levelsAll},
	"for":       {TokenTypeKeywordFor, levelsAll},
	"return":    {TokenTypeKeywordReturn, levelsAll},
	"break":     {TokenTypeKeywordBreak, levelsAll},
	"continue":  {TokenTypeKeywordContinue, levelsAll},
	"throw":     {TokenTypeKeywordThrow, levelsAll},
	"try":       {TokenTypeKeywordTry, levelsAll},
	"catch":     {TokenTypeKeywordCatch, levelsAll},
	"finally":   {TokenTypeKeywordFinally, levelsAll},
	"true":      {TokenTypeKeywordTrue, levelsAll},
	"false":     {TokenTypeKeywordFalse, levelsAll},
	"null":      {TokenTypeKeywordNull, levelsAll},
	"in":        {TokenTypeKeywordIn, levelsAll},
	"function":  {TokenTypeKeywordFunction, levelsAll},
	"new":       {TokenTypeKeywordNew, levelsAll},
	"then":      {TokenTypeKeywordThen, levelHigh},
	"otherwise": {TokenTypeKeywordOtherwise, levelHigh},
	"end":       {TokenTypeKeywordEnd, levelHigh},
	"each":      {TokenTypeKeywordEach, levelHigh},
	"repeat":    {TokenTypeKeywordRepeat, levelHigh},
	"times":     {TokenTypeKeywordTimes, levelHigh},
	"iterate":   {TokenTypeKeywordIterate, levelHigh},
	"from":      {TokenTypeKeywordFrom, levelHigh},
	"through":   {TokenTypeKeywordThrough, levelHigh},
	"step":      {TokenTypeKeywordStep, levelHigh},
	"print":     {TokenTypeKeywordPrint, levelHigh},
	"define":    {TokenTypeKeywordDefine, levelHigh},
	"taking":    {TokenTypeKeywordTaking, levelHigh},
	"and":       {TokenTypeKeywordAnd, levelHigh},
	"or":        {TokenTypeKeywordOr, levelHigh},
	"not":       {TokenTypeKeywordNot, levelHigh},
	"is":        {TokenTypeKeywordIs, levelHigh},
	"with":      {TokenTypeKeywordWith, levelHigh},
	"set":       {TokenTypeKeywordSet, levelHigh},
	"to":        {TokenTypeKeywordTo, levelHigh},
	"do":        {TokenTypeKeywordDo, levelHigh},
	"var":       {TokenTypeKeywordVar, levelsStructured},
	"let":       {TokenTypeKeywordLet, levelsStructured},
	"const":     {TokenTypeKeywordConst, levelsStructured},
	"switch":    {TokenTypeKeywordSwitch, levelsStructured},
	"case":      {TokenTypeKeywordCase, levelsStructured},
	"default":   {TokenTypeKeywordDefault, levelsStructured},
	"class":     {TokenTypeKeywordClass, levelsStructured},
	"struct":    {TokenTypeKeywordStruct, levelsStructured},
	"interface": {TokenTypeKeywordInterface, levelsStructured},
	"enum":      {TokenTypeKeywordEnum, levelsStructured},
	"namespace": {TokenTypeKeywordNamespace, levelsStructured},
	"using":     {TokenTypeKeywordUsing, levelsStructured},
	"public":    {TokenTypeKeywordPublic, levelsStructured},
	"private":   {TokenTypeKeywordPrivate, levelsStructured},
	"protected": {TokenTypeKeywordProtected, levelsStructured},
	"internal":  {TokenTypeKeywordInternal, levelsStructured},
	"static":    {TokenTypeKeywordStatic, levelsStructured},
	"abstract":  {TokenTypeKeywordAbstract, levelsStructured},
	"virtual":   {TokenTypeKeywordVirtual, levelsStructured},
	"override":  {TokenTypeKeywordOverride, levelsStructured},
	"readonly":  {TokenTypeKeywordReadonly, levelsStructured},
	"sealed":    {TokenTypeKeywordSealed, levelsStructured},
	"foreach":   {TokenTypeKeywordForeach, levelsStructured},
	"match":     {TokenTypeKeywordMatch, levelsStructured},
	"when":      {TokenTypeKeywordWhen, levelsStructured},
	"as":        {TokenTypeKeywordAs, levelsStructured},
	"union":     {TokenTypeKeywordUnion, levelsStructured},
	"fn":        {TokenTypeKeywordFn, levelLow},
}

var keywordText = func() map[TokenType]string {
	m := make(map[TokenType]string, len(keywords))
	for text, k := range keywords {
		m[k.kind] = text
	}
	return m
}()

// LookupKeyword returns the keyword token type for the given text.
func LookupKeyword(text string) (TokenType, bool) {
	k, ok := keywords[text]
	return k.kind, ok
}

// KeywordText returns the source spelling of a keyword token type.
func KeywordText(t TokenType) (string, bool) {
	s, ok := keywordText[t]
	return s, ok
}

func (t TokenType) IsKeyword() bool {
	_, ok := keywordText[t]
	return ok
}

// ReservedIn reports whether the token type is a reserved word under the
// given syntax level. Non-keyword types are never reserved.
func (t TokenType) ReservedIn(level SyntaxLevel) bool {
	text, ok := keywordText[t]
	if !ok {
		return false
	}
	return keywords[text].levels&maskOf(level) != 0
}

func maskOf(level SyntaxLevel) levelMask {
	switch level {
	case SyntaxLevelMedium:
		return levelMedium
	case SyntaxLevelLow:
		return levelLow
	default:
		return levelHigh
	}
}

// IsLiteral reports whether tokens of this type carry a decoded literal.
func (t TokenType) IsLiteral() bool {
	switch t {
	case TokenTypeIntegerDecimal, TokenTypeIntegerHex, TokenTypeIntegerBinary, TokenTypeFloatDecimal, TokenTypeText,
		TokenTypeKeywordTrue, TokenTypeKeywordFalse, TokenTypeKeywordNull:
		return true
	}
	return false
}
