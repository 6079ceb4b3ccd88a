package recommend

import (
	"fmt"
	"math"
)

// ClientProfile holds a client's assessment attributes by name. Categorical
// answers are pre-coded as integers and yes/no answers as 0 or 1.
type ClientProfile map[string]float64

// FeatureVector is the model input: the normalised schema attributes followed
// by one slot per catalog option.
type FeatureVector []float64

// Attribute is one profile field and the range it is normalised over.
type Attribute struct {
	Name string
	Min  float64
	Max  float64
}

type Schema []Attribute

// DefaultSchema lists the assessment attributes collected on intake.
func DefaultSchema() Schema {
	return Schema{
		{Name: "age", Min: 18, Max: 100},
		{Name: "gender", Min: 1, Max: 2},
		{Name: "work_experience", Min: 0, Max: 60},
		{Name: "canada_workex", Min: 0, Max: 60},
		{Name: "dep_num", Min: 0, Max: 20},
		{Name: "canada_born", Min: 0, Max: 1},
		{Name: "citizen_status", Min: 0, Max: 1},
		{Name: "level_of_schooling", Min: 1, Max: 14},
		{Name: "fluent_english", Min: 0, Max: 1},
		{Name: "reading_english_scale", Min: 0, Max: 10},
		{Name: "speaking_english_scale", Min: 0, Max: 10},
		{Name: "writing_english_scale", Min: 0, Max: 10},
		{Name: "numeracy_scale", Min: 0, Max: 10},
		{Name: "computer_scale", Min: 0, Max: 10},
		{Name: "transportation_bool", Min: 0, Max: 1},
		{Name: "caregiver_bool", Min: 0, Max: 1},
		{Name: "housing", Min: 1, Max: 10},
		{Name: "income_source", Min: 1, Max: 11},
		{Name: "felony_bool", Min: 0, Max: 1},
		{Name: "attending_school", Min: 0, Max: 1},
		{Name: "currently_employed", Min: 0, Max: 1},
		{Name: "substance_use", Min: 0, Max: 1},
		{Name: "time_unemployed", Min: 0, Max: 120},
		{Name: "need_mental_health_support_bool", Min: 0, Max: 1},
	}
}

// Encoder turns a profile and a combination into a FeatureVector. It holds no
// mutable state, so one instance is shared by every request.
type Encoder struct {
	schema  Schema
	catalog *Catalog
}

func NewEncoder(schema Schema, catalog *Catalog) (*Encoder, error) {
	if catalog == nil {
		return nil, &ConfigurationError{Reason: "encoder needs a catalog"}
	}

	seen := make(map[string]struct{}, len(schema))
	for _, attr := range schema {
		if attr.Name == "" {
			return nil, &ConfigurationError{Reason: "schema attribute without a name"}
		}
		if _, dup := seen[attr.Name]; dup {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("duplicate schema attribute %q", attr.Name)}
		}
		if !(attr.Max > attr.Min) {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("attribute %q has an empty range", attr.Name)}
		}
		seen[attr.Name] = struct{}{}
	}

	s := make(Schema, len(schema))
	copy(s, schema)
	return &Encoder{schema: s, catalog: catalog}, nil
}

// Dim is the length of every vector the encoder produces.
func (e *Encoder) Dim() int {
	return len(e.schema) + e.catalog.Len()
}

func (e *Encoder) Schema() Schema {
	s := make(Schema, len(e.schema))
	copy(s, e.schema)
	return s
}

func (e *Encoder) Encode(profile ClientProfile, combo InterventionCombination) (FeatureVector, error) {
	vec := make(FeatureVector, e.Dim())

	for i, attr := range e.schema {
		v, ok := profile[attr.Name]
		if !ok {
			return nil, &EncodingError{Field: attr.Name, Reason: "missing"}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &EncodingError{Field: attr.Name, Reason: "not a finite number"}
		}
		if v < attr.Min || v > attr.Max {
			return nil, &EncodingError{Field: attr.Name, Reason: fmt.Sprintf("%g outside [%g, %g]", v, attr.Min, attr.Max)}
		}
		vec[i] = (v - attr.Min) / (attr.Max - attr.Min)
	}

	offset := len(e.schema)
	for _, opt := range combo {
		j, ok := e.catalog.Index(opt)
		if !ok {
			return nil, &EncodingError{Field: "interventions", Reason: fmt.Sprintf("%q is not in the catalog", opt)}
		}
		if vec[offset+j] != 0 {
			return nil, &EncodingError{Field: "interventions", Reason: fmt.Sprintf("%q listed more than once", opt)}
		}
		vec[offset+j] = 1
	}

	return vec, nil
}
