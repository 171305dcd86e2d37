package persistence

import (
	"streamhub/domain/query"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ToMongoPipeline renders p as an aggregation pipeline.
func ToMongoPipeline(p *query.Pipeline) mongo.Pipeline {
	out := mongo.Pipeline{}
	for _, s := range p.Stages() {
		out = append(out, renderStage(s))
	}
	return out
}

func renderStage(s query.Stage) bson.D {
	switch s.Kind {
	case query.StageMatch:
		return bson.D{{Key: "$match", Value: bson.D{{Key: s.Field, Value: s.Value}}}}
	case query.StageLookup:
		lookup := bson.D{
			{Key: "from", Value: s.From},
			{Key: "localField", Value: s.LocalField},
			{Key: "foreignField", Value: s.ForeignField},
			{Key: "as", Value: s.As},
		}
		if s.Sub.Len() > 0 {
			sub := bson.A{}
			for _, stage := range ToMongoPipeline(s.Sub) {
				sub = append(sub, stage)
			}
			lookup = append(lookup, bson.E{Key: "pipeline", Value: sub})
		}
		return bson.D{{Key: "$lookup", Value: lookup}}
	case query.StageUnwind:
		return bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + s.Field},
			{Key: "preserveNullAndEmptyArrays", Value: s.PreserveEmpty},
		}}}
	case query.StageAddFields:
		fields := bson.D{}
		for _, f := range s.Fields {
			fields = append(fields, bson.E{Key: f.Name, Value: renderExpr(f.Expr)})
		}
		return bson.D{{Key: "$addFields", Value: fields}}
	default:
		project := bson.D{}
		for _, f := range s.Include {
			project = append(project, bson.E{Key: f, Value: 1})
		}
		for _, f := range s.Exclude {
			project = append(project, bson.E{Key: f, Value: 0})
		}
		return bson.D{{Key: "$project", Value: project}}
	}
}

func renderExpr(e query.Expr) interface{} {
	switch e.Kind {
	case query.ExprSize:
		return bson.D{{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$" + e.Field, bson.A{}}}}}}
	case query.ExprIn:
		return bson.D{{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{e.Value, bson.D{{Key: "$ifNull", Value: bson.A{"$" + e.Field, bson.A{}}}}}}}},
			{Key: "then", Value: true},
			{Key: "else", Value: false},
		}}}
	default:
		return bson.D{{Key: "$first", Value: "$" + e.Field}}
	}
}
