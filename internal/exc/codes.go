package exc

const (
	CodeUnknownFatal                  = "P0000"
	CodeFileNotFound                  = "P0001"
	CodeUnsuportedFileSystemOperation = "P0002"
	CodePermissionDenied              = "P0003"
	CodeUnsupportedFileFormat         = "P0004"
	CodeUnexpectedEOF                 = "P0005"
	CodeInvalidNumber                 = "P0006"
	CodeExpectedToken                 = "P0007"
	CodeUnexpectedToken               = "P0008"
	CodeAmbiguousConstruct            = "P0009"
	CodeMismatchedTerminator          = "P0010"
	CodeMissingTypeAnnotation         = "P0011"
	CodeInlineSyntaxSwitch            = "P0012"
	CodeInvalidLiteral                = "P0013"
	CodeInternalInvariant             = "P0014"
	CodeBudgetExceeded                = "P0015"
)

const (
	CodeEOF = "_EOF_"
)

var (
	// Syntax problems are recorded and parsing continues. Everything else
	// aborts the compilation unit.
	defaultNonFatal = map[string]bool{
		CodeUnexpectedEOF:         true,
		CodeInvalidNumber:         true,
		CodeExpectedToken:         true,
		CodeUnexpectedToken:       true,
		CodeAmbiguousConstruct:    true,
		CodeMismatchedTerminator:  true,
		CodeMissingTypeAnnotation: true,
		CodeInlineSyntaxSwitch:    true,
		CodeInvalidLiteral:        true,
	}
)

// IsSyntax reports whether the code describes a recoverable syntax problem.
func IsSyntax(code string) bool {
	return defaultNonFatal[code]
}
