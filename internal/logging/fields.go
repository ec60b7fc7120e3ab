package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType tags log lines with a machine-filterable event name.
	FieldEventType = "event_type"
	// FieldErrorHint carries a suggested next step for warnings and errors.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldRunID is the logging key for generation run identifiers.
	FieldRunID = "run_id"
	// FieldRecordType is the logging key for record type tags.
	FieldRecordType = "record_type"
	// FieldRow is the logging key for 1-based CSV row indexes.
	FieldRow = "row"
	// FieldWord is the logging key for the primary word of a record.
	FieldWord = "word"
	// FieldInfinitive is the logging key for verb infinitives.
	FieldInfinitive = "infinitive"
	// FieldTense is the logging key for verb tense names.
	FieldTense = "tense"
	// FieldFilename is the logging key for media filenames.
	FieldFilename = "filename"
	// FieldMediaKind is the logging key for media kinds (audio, image).
	FieldMediaKind = "media_kind"
	// FieldNoteType is the logging key for note type names.
	FieldNoteType = "note_type"
)
