package kinesis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/example/litebay/internal/domain/contact"
	"github.com/example/litebay/internal/domain/order"
	shopevents "github.com/example/litebay/internal/events"
)

// collectionEvents maps a stored collection onto the event announcing a new element
var collectionEvents = map[string]string{
	order.StorageKey:   shopevents.OrderPlaced,
	contact.StorageKey: shopevents.ContactSubmitted,
}

// ConvertFromKinesisRecord converts a Kinesis record (DynamoDB Streams format) to shop events.
// DynamoDB Kinesis integration sends records in DynamoDB Streams format.
func ConvertFromKinesisRecord(record events.KinesisEventRecord) ([]shopevents.Event, error) {
	var dynamoDBRecord events.DynamoDBEventRecord
	if err := json.Unmarshal(record.Kinesis.Data, &dynamoDBRecord); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DynamoDB record: %w", err)
	}
	return ConvertFromDynamoDBStreamRecord(dynamoDBRecord)
}

// ConvertFromDynamoDBStreamRecord diffs a write to the key-value table and
// returns one event per element appended to the orders or contacts collection.
// Writes to any other key, and removals, yield nothing.
func ConvertFromDynamoDBStreamRecord(record events.DynamoDBEventRecord) ([]shopevents.Event, error) {
	if record.EventName != "INSERT" && record.EventName != "MODIFY" {
		return nil, nil
	}

	pk, ok := stringAttr(record.Change.Keys, "pk")
	if !ok {
		pk, ok = stringAttr(record.Change.NewImage, "pk")
	}
	if !ok {
		return nil, fmt.Errorf("record %s has no pk", record.EventID)
	}
	eventType, watched := collectionEvents[pk]
	if !watched {
		return nil, nil
	}

	before, err := decodeCollection(record.Change.OldImage)
	if err != nil {
		return nil, fmt.Errorf("old image: %w", err)
	}
	after, err := decodeCollection(record.Change.NewImage)
	if err != nil {
		return nil, fmt.Errorf("new image: %w", err)
	}

	timestamp := record.Change.ApproximateCreationDateTime.Time
	if v, ok := stringAttr(record.Change.NewImage, "updated_at"); ok {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}
		timestamp = t
	}

	seen := make(map[int64]bool, len(before))
	for _, el := range before {
		seen[el.id] = true
	}

	var out []shopevents.Event
	for _, el := range after {
		if seen[el.id] {
			continue
		}
		out = append(out, shopevents.Event{
			ID:        fmt.Sprintf("%s-%d", record.EventID, el.id),
			Type:      eventType,
			Key:       pk,
			Data:      el.raw,
			Timestamp: timestamp,
		})
	}
	return out, nil
}

type element struct {
	id  int64
	raw json.RawMessage
}

// decodeCollection reads the JSON array held in the binary "value" attribute
func decodeCollection(image map[string]events.DynamoDBAttributeValue) ([]element, error) {
	v, ok := image["value"]
	if !ok || v.IsNull() {
		return nil, nil
	}
	if v.DataType() != events.DataTypeBinary {
		return nil, fmt.Errorf("value attribute is not binary")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(v.Binary(), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}

	out := make([]element, 0, len(raw))
	for _, r := range raw {
		var head struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(r, &head); err != nil {
			return nil, fmt.Errorf("failed to decode element: %w", err)
		}
		out = append(out, element{id: head.ID, raw: r})
	}
	return out, nil
}

func stringAttr(image map[string]events.DynamoDBAttributeValue, name string) (string, bool) {
	v, ok := image[name]
	if !ok || v.DataType() != events.DataTypeString {
		return "", false
	}
	return v.String(), true
}
