package activity

import (
	"encoding/json"
	"fmt"
	"time"

	"pctracer-svc/src/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Layout is the timestamp format the tracking agent writes.
const Layout = "2006-01-02 15:04:05"

const dateLayout = "2006-01-02"

// Timestamp is an agent wall-clock time. It carries no zone: values are kept in UTC
// so hour and date buckets read back exactly what the agent wrote.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)}
}

func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("%w: timestamp %q does not match %s", models.ErrInvalidParams, s, Layout)
	}
	return Timestamp{t}, nil
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

// Date returns the calendar day as YYYY-MM-DD.
func (t Timestamp) Date() string {
	return t.Format(dateLayout)
}

// DayOfWeek follows MongoDB's $dayOfWeek numbering: 1 is Sunday, 7 is Saturday.
func (t Timestamp) DayOfWeek() int {
	return int(t.Weekday()) + 1
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t *Timestamp) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: typ, Value: data}

	switch typ {
	case bsontype.String:
		s, ok := raw.StringValueOK()
		if !ok {
			return fmt.Errorf("%w: malformed string timestamp", models.ErrInvalidParams)
		}
		if s == "" {
			*t = Timestamp{}
			return nil
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		*t = parsed
	case bsontype.DateTime:
		*t = NewTimestamp(raw.Time().UTC())
	case bsontype.Null, bsontype.Undefined:
		*t = Timestamp{}
	default:
		return fmt.Errorf("%w: unsupported timestamp type %s", models.ErrInvalidParams, typ)
	}

	return nil
}

// Record is one window-activity sample written by the tracking agent.
type Record struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User            string             `json:"user" bson:"user"`
	Window          string             `json:"window" bson:"window"`
	StartTime       Timestamp          `json:"start_time" bson:"start_time"`
	EndTime         Timestamp          `json:"end_time" bson:"end_time"`
	DurationSeconds float64            `json:"duration_seconds" bson:"duration_seconds"`
}

// AppName derives the application from the window title.
func (r *Record) AppName() string {
	return DeriveAppName(r.Window)
}

// Validate rejects documents the aggregations cannot place in time.
func (r *Record) Validate() error {
	if r.StartTime.IsZero() {
		return fmt.Errorf("%w: start_time is required", models.ErrInvalidParams)
	}
	if r.DurationSeconds < 0 {
		return fmt.Errorf("%w: duration_seconds must not be negative", models.ErrInvalidParams)
	}
	return nil
}
