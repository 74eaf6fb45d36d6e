package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	"github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

var testFields = Fields{"id": "_id", "chatId": "chatId", "message": "message", "createdAt": "createdAt"}

func TestFilter_Operators(t *testing.T) {
	since := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		criteria sharedDomain.Criterion
		expected bson.E
	}{
		{"eq", sharedDomain.Criterion{Field: "chatId", Op: sharedDomain.OpEq, Value: int64(3)}, bson.E{Key: "chatId", Value: bson.M{"$eq": int64(3)}}},
		{"not", sharedDomain.Criterion{Field: "id", Op: sharedDomain.OpNeq, Value: int64(1)}, bson.E{Key: "_id", Value: bson.M{"$ne": int64(1)}}},
		{"more_than", sharedDomain.Criterion{Field: "id", Op: sharedDomain.OpGt, Value: int64(10)}, bson.E{Key: "_id", Value: bson.M{"$gt": int64(10)}}},
		{"fecha", sharedDomain.Criterion{Field: "createdAt", Op: sharedDomain.OpGte, Value: since.Format(time.RFC3339)}, bson.E{Key: "createdAt", Value: bson.M{"$gte": since}}},
		{"like", sharedDomain.Criterion{Field: "message", Op: sharedDomain.OpLike, Value: "ho_a%"}, bson.E{Key: "message", Value: bson.M{"$regex": "^ho.a.*$"}}},
		{"ilike", sharedDomain.Criterion{Field: "message", Op: sharedDomain.OpILike, Value: "%a.b%"}, bson.E{Key: "message", Value: bson.M{"$regex": `^.*a\.b.*$`, "$options": "i"}}},
		{"between", sharedDomain.Criterion{Field: "id", Op: sharedDomain.OpBetween, Value: [2]interface{}{int64(1), int64(5)}}, bson.E{Key: "_id", Value: bson.M{"$gte": int64(1), "$lte": int64(5)}}},
		{"in", sharedDomain.Criterion{Field: "id", Op: sharedDomain.OpIn, Value: []interface{}{int64(1), int64(2)}}, bson.E{Key: "_id", Value: bson.M{"$in": bson.A{int64(1), int64(2)}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := testFields.Filter([]sharedDomain.Criterion{tt.criteria})
			require.NoError(t, err)
			require.Len(t, filter, 1)
			assert.Equal(t, tt.expected, filter[0])
		})
	}
}

func TestFilter_UnknownField(t *testing.T) {
	_, err := testFields.Filter([]sharedDomain.Criterion{{Field: "password", Op: sharedDomain.OpEq, Value: "x"}})
	assert.ErrorIs(t, err, query.ErrInvalidFilterKey)
	assert.False(t, testFields.HasField("password"))
}

func TestFindOptions(t *testing.T) {
	skip := 40
	opts, err := testFields.FindOptions(query.FindOptions{
		Order: []query.Sort{{Field: "createdAt", Desc: true}, {Field: "id"}},
		Take:  20,
		Skip:  &skip,
	})
	require.NoError(t, err)

	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}, opts.Sort)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(20), *opts.Limit)
	require.NotNil(t, opts.Skip)
	assert.Equal(t, int64(40), *opts.Skip)

	_, err = testFields.FindOptions(query.FindOptions{Order: []query.Sort{{Field: "nope"}}})
	assert.ErrorIs(t, err, query.ErrInvalidFilterKey)
}
