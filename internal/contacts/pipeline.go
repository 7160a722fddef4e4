package contacts

// Parse tokenizes text and maps the rows into contacts.
func (m Mapper) Parse(text string) Outcome {
	return m.Map(Tokenize(text))
}

// Parse runs Tokenize and MapRows with a zero-value Mapper.
func Parse(text string) Outcome {
	return Mapper{}.Parse(text)
}
