package generator

import "google.golang.org/genai"

// Response schemas constrain the model to the exact JSON shapes the parsers
// expect. Fields listed as required here are also checked after parsing; the
// rest may be omitted by the model.

func cardSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"word":            {Type: genai.TypeString},
			"country":         {Type: genai.TypeString},
			"pronunciation":   {Type: genai.TypeString},
			"shortDefinition": {Type: genai.TypeString},
			"question":        {Type: genai.TypeString},
		},
		Required: []string{"word", "country", "shortDefinition", "question"},
	}
}

func deepDiveSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"culturalContext":      {Type: genai.TypeString},
			"philosophicalInsight": {Type: genai.TypeString},
			"exampleUsage":         {Type: genai.TypeString},
		},
		Required: []string{"culturalContext", "philosophicalInsight", "exampleUsage"},
	}
}

func personSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"word":          {Type: genai.TypeString},
			"translation":   {Type: genai.TypeString},
			"explanation":   {Type: genai.TypeString},
			"country":       {Type: genai.TypeString},
			"pronunciation": {Type: genai.TypeString},
			"meaning":       {Type: genai.TypeString},
			"poem":          {Type: genai.TypeString},
		},
		Required: []string{"word", "translation", "explanation", "country", "meaning", "poem"},
	}
}

func eventSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"word":          {Type: genai.TypeString},
			"translation":   {Type: genai.TypeString},
			"explanation":   {Type: genai.TypeString},
			"country":       {Type: genai.TypeString},
			"pronunciation": {Type: genai.TypeString},
			"meaning":       {Type: genai.TypeString},
		},
		Required: []string{"word", "translation", "explanation", "country", "meaning"},
	}
}
