// Package query describes read pipelines independently of the backing store.
// A store renders a Pipeline into its native form (a Mongo aggregation, SQL joins).
package query

// StageKind identifies a pipeline stage.
type StageKind int

const (
	StageMatch StageKind = iota
	StageLookup
	StageUnwind
	StageAddFields
	StageProject
)

// ExprKind identifies a computed-field expression.
type ExprKind int

const (
	// ExprSize is the cardinality of an array field.
	ExprSize ExprKind = iota
	// ExprIn is true when Value is a member of the array at Field.
	ExprIn
	// ExprFirst is the first element of an array field.
	ExprFirst
)

// Expr is a computed-field expression.
type Expr struct {
	Kind  ExprKind
	Field string
	Value interface{}
}

// Computed is a named computed field.
type Computed struct {
	Name string
	Expr Expr
}

// Stage is one step of a Pipeline. Only the fields relevant to Kind are set.
type Stage struct {
	Kind StageKind

	// match
	Field string
	Value interface{}

	// lookup
	From         string
	LocalField   string
	ForeignField string
	As           string
	Sub          *Pipeline

	// unwind
	PreserveEmpty bool

	// addFields
	Fields []Computed

	// project
	Include []string
	Exclude []string
}

// Pipeline is an ordered list of stages. The zero value is an empty pipeline.
type Pipeline struct {
	stages []Stage
}

func New() *Pipeline {
	return &Pipeline{}
}

func (p *Pipeline) add(s Stage) *Pipeline {
	p.stages = append(p.stages, s)
	return p
}

// Match keeps documents whose field equals value.
func (p *Pipeline) Match(field string, value interface{}) *Pipeline {
	return p.add(Stage{Kind: StageMatch, Field: field, Value: value})
}

// Lookup left-joins documents of from where foreignField equals localField, into the array as.
// sub, when non-nil, runs against every joined document.
func (p *Pipeline) Lookup(from, localField, foreignField, as string, sub *Pipeline) *Pipeline {
	return p.add(Stage{
		Kind:         StageLookup,
		From:         from,
		LocalField:   localField,
		ForeignField: foreignField,
		As:           as,
		Sub:          sub,
	})
}

// Unwind flattens an array field into one document per element.
func (p *Pipeline) Unwind(field string, preserveEmpty bool) *Pipeline {
	return p.add(Stage{Kind: StageUnwind, Field: field, PreserveEmpty: preserveEmpty})
}

// AddSize sets name to the number of elements of arrayField.
func (p *Pipeline) AddSize(name, arrayField string) *Pipeline {
	return p.addField(name, Expr{Kind: ExprSize, Field: arrayField})
}

// AddIn sets name to whether value occurs in the array at arrayPath (e.g. "subscribers.subscriber").
func (p *Pipeline) AddIn(name string, value interface{}, arrayPath string) *Pipeline {
	return p.addField(name, Expr{Kind: ExprIn, Field: arrayPath, Value: value})
}

// AddFirst replaces name with the first element of field.
func (p *Pipeline) AddFirst(name, field string) *Pipeline {
	return p.addField(name, Expr{Kind: ExprFirst, Field: field})
}

// consecutive computed fields share one stage
func (p *Pipeline) addField(name string, expr Expr) *Pipeline {
	if n := len(p.stages); n > 0 && p.stages[n-1].Kind == StageAddFields {
		p.stages[n-1].Fields = append(p.stages[n-1].Fields, Computed{Name: name, Expr: expr})
		return p
	}
	return p.add(Stage{Kind: StageAddFields, Fields: []Computed{{Name: name, Expr: expr}}})
}

// Include keeps only the listed fields.
func (p *Pipeline) Include(fields ...string) *Pipeline {
	return p.add(Stage{Kind: StageProject, Include: fields})
}

// Exclude drops the listed fields.
func (p *Pipeline) Exclude(fields ...string) *Pipeline {
	return p.add(Stage{Kind: StageProject, Exclude: fields})
}

// Stages returns a copy of the stages in order.
func (p *Pipeline) Stages() []Stage {
	if p == nil {
		return nil
	}
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

// Len is the number of stages.
func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}
	return len(p.stages)
}
