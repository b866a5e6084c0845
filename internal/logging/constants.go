package logging

// Standardized field names for structured logging.
const (
	FieldFile       = "file_path"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldCommand    = "command"
	FieldCount      = "count"
	FieldRow        = "row"
	FieldSide       = "side"
	FieldRaw        = "raw"
	FieldCandidate  = "candidate"
	FieldCategory   = "category"
	FieldEncoding   = "encoding"
	FieldDelimiter  = "delimiter"
	FieldFormat     = "format"
	FieldError      = "error"
)
