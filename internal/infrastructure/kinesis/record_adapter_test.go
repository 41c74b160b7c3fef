package kinesis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/litebay/internal/domain/order"
	shopevents "github.com/example/litebay/internal/events"
)

func image(pk, value string) map[string]events.DynamoDBAttributeValue {
	img := map[string]events.DynamoDBAttributeValue{
		"pk":         events.NewStringAttribute(pk),
		"updated_at": events.NewStringAttribute("2024-01-15T10:30:00.123456789Z"),
	}
	if value != "" {
		img["value"] = events.NewBinaryAttribute([]byte(value))
	}
	return img
}

func record(name, pk, oldValue, newValue string) events.DynamoDBEventRecord {
	r := events.DynamoDBEventRecord{
		EventID:   "evt-1",
		EventName: name,
		Change: events.DynamoDBStreamRecord{
			Keys:     map[string]events.DynamoDBAttributeValue{"pk": events.NewStringAttribute(pk)},
			NewImage: image(pk, newValue),
		},
	}
	if oldValue != "" {
		r.Change.OldImage = image(pk, oldValue)
	}
	return r
}

func TestConvertFromDynamoDBStreamRecord(t *testing.T) {
	t.Run("first order is reported", func(t *testing.T) {
		got, err := ConvertFromDynamoDBStreamRecord(record("INSERT", "orders", "", `[{"id":101,"name":"An"}]`))

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, shopevents.OrderPlaced, got[0].Type)
		assert.Equal(t, "orders", got[0].Key)
		assert.Equal(t, "evt-1-101", got[0].ID)
		assert.Equal(t, 2024, got[0].Timestamp.Year())

		var o order.Order
		require.NoError(t, got[0].Decode(&o))
		assert.Equal(t, int64(101), o.ID)
		assert.Equal(t, "An", o.Name)
	})

	t.Run("only appended elements are reported", func(t *testing.T) {
		got, err := ConvertFromDynamoDBStreamRecord(record("MODIFY", "contacts",
			`[{"id":1},{"id":2}]`,
			`[{"id":1},{"id":2},{"id":3}]`))

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, shopevents.ContactSubmitted, got[0].Type)
		assert.JSONEq(t, `{"id":3}`, string(got[0].Data))
	})

	t.Run("unwatched keys are ignored", func(t *testing.T) {
		got, err := ConvertFromDynamoDBStreamRecord(record("MODIFY", "wishlist", `[1]`, `[1,2]`))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("REMOVE is ignored", func(t *testing.T) {
		got, err := ConvertFromDynamoDBStreamRecord(record("REMOVE", "orders", `[{"id":1}]`, ""))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("corrupt collection", func(t *testing.T) {
		_, err := ConvertFromDynamoDBStreamRecord(record("MODIFY", "orders", "", `{not json`))
		assert.Error(t, err)
	})

	t.Run("missing pk", func(t *testing.T) {
		_, err := ConvertFromDynamoDBStreamRecord(events.DynamoDBEventRecord{EventName: "INSERT"})
		assert.Error(t, err)
	})

	t.Run("bad updated_at", func(t *testing.T) {
		r := record("INSERT", "orders", "", `[{"id":1}]`)
		r.Change.NewImage["updated_at"] = events.NewStringAttribute("yesterday")
		_, err := ConvertFromDynamoDBStreamRecord(r)
		assert.Error(t, err)
	})
}

func TestConvertFromKinesisRecord(t *testing.T) {
	data, err := json.Marshal(record("INSERT", "orders", "", `[{"id":7}]`))
	require.NoError(t, err)

	got, err := ConvertFromKinesisRecord(events.KinesisEventRecord{
		EventID: "shard-1:seq-1",
		Kinesis: events.KinesisRecord{Data: data, SequenceNumber: "seq-1"},
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, shopevents.OrderPlaced, got[0].Type)
	assert.WithinDuration(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), got[0].Timestamp, time.Second)
}

func TestConvertFromKinesisRecord_InvalidData(t *testing.T) {
	_, err := ConvertFromKinesisRecord(events.KinesisEventRecord{
		Kinesis: events.KinesisRecord{Data: []byte("not json")},
	})
	assert.Error(t, err)
}
