// Package mongopager renders cursor pagination queries as MongoDB filters and
// find options.
package mongopager

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	cursorpagination "github.com/CatLabInteractive/cursor-pagination"
)

var _operators = map[cursorpagination.Operator]string{
	cursorpagination.OperatorGT:  "$gt",
	cursorpagination.OperatorGTE: "$gte",
	cursorpagination.OperatorLT:  "$lt",
	cursorpagination.OperatorLTE: "$lte",
}

// Filter converts a predicate into a MongoDB filter document. A nil predicate
// yields an empty filter. The entity of a comparison becomes the parent of a
// dotted field path.
func Filter(p cursorpagination.Predicate) (bson.D, error) {
	switch v := p.(type) {
	case nil:
		return bson.D{}, nil
	case cursorpagination.Comparison:
		op, ok := _operators[v.Operator]
		if !ok {
			return nil, fmt.Errorf("unsupported operator '%s'", v.Operator)
		}

		return bson.D{{Key: fieldPath(v.Entity, v.Column), Value: bson.D{{Key: op, Value: v.Value}}}}, nil
	case cursorpagination.And:
		return junction("$and", v)
	case cursorpagination.Or:
		return junction("$or", v)
	default:
		return nil, fmt.Errorf("unsupported predicate %T", p)
	}
}

func junction(op string, operands []cursorpagination.Predicate) (bson.D, error) {
	switch len(operands) {
	case 0:
		return bson.D{}, nil
	case 1:
		return Filter(operands[0])
	}

	docs := make(bson.A, 0, len(operands))
	for _, operand := range operands {
		doc, err := Filter(operand)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return bson.D{{Key: op, Value: docs}}, nil
}

// Sort converts orderings into a sort document: 1 for ASC, -1 for DESC.
func Sort(orderings cursorpagination.Orderings) bson.D {
	ret := make(bson.D, 0, len(orderings))
	for _, o := range orderings {
		dir := 1
		if o.Direction == cursorpagination.DirectionDESC {
			dir = -1
		}
		ret = append(ret, bson.E{Key: fieldPath(o.Entity, o.Column), Value: dir})
	}

	return ret
}

// FindOptions returns sort and limit of the page query.
func FindOptions(q *cursorpagination.Query) *options.FindOptions {
	opts := options.Find()
	if q == nil {
		return opts
	}

	if len(q.Orderings) > 0 {
		opts.SetSort(Sort(q.Orderings))
	}
	if limit := q.DatasetLimit(); limit != cursorpagination.NoLimit {
		opts.SetLimit(int64(limit))
	}

	return opts
}

// Find runs the page query on coll. base is ANDed with the keyset filter.
func Find(ctx context.Context, coll *mongo.Collection, base bson.D, q *cursorpagination.Query) ([]bson.M, error) {
	var where cursorpagination.Predicate
	if q != nil {
		where = q.Where
	}

	keyset, err := Filter(where)
	if err != nil {
		return nil, fmt.Errorf("cannot render page filter: %w", err)
	}

	cursor, err := coll.Find(ctx, combine(base, keyset), FindOptions(q))
	if err != nil {
		return nil, fmt.Errorf("cannot find page: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cannot decode page: %w", err)
	}

	return docs, nil
}

func combine(base, keyset bson.D) bson.D {
	switch {
	case len(keyset) == 0 && base == nil:
		return bson.D{}
	case len(keyset) == 0:
		return base
	case len(base) == 0:
		return keyset
	default:
		return bson.D{{Key: "$and", Value: bson.A{base, keyset}}}
	}
}

func fieldPath(entity, column string) string {
	if entity == "" {
		return column
	}

	return entity + "." + column
}
