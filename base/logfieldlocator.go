package base

// LogFieldLocator is used to locate a named field in LogEvent, bound to a LogSchema
type LogFieldLocator int

// MissingFieldLocator represents non-existing index to a log field
const MissingFieldLocator LogFieldLocator = -1

// Get returns the field value or empty string
func (loc LogFieldLocator) Get(fields LogFields) string {
	return fields[loc]
}

// Set assigns the field value
func (loc LogFieldLocator) Set(fields LogFields, value string) {
	fields[loc] = value
}

// provideTemplatePart is used by LogSchema.CreateTemplateVariableResolver for stringtemplate.Expander
func (loc LogFieldLocator) provideTemplatePart(fields []string) string {
	return fields[loc]
}
