package prompts

import (
	_ "embed"
)

//go:embed field_mapper.txt
var FieldMapperPrompt string
