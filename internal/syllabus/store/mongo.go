package store

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/YoderBy/gil-bot/internal/syllabus"
)

// MongoStore persists the ledger in two collections: "syllabi" holds one
// metadata document per course with the current_version pointer, and
// "syllabus_versions" holds one immutable document per version. A unique
// compound index on (syllabus_id, version) makes the version insert the
// serialization point for concurrent writers.
type MongoStore struct {
	courses  *mongo.Collection
	versions *mongo.Collection
}

type courseMeta struct {
	Name     string `bson:"name"`
	HebName  string `bson:"heb_name"`
	Year     string `bson:"year"`
	Semester string `bson:"semester"`
}

type courseDoc struct {
	ID             string     `bson:"_id"`
	Metadata       courseMeta `bson:"metadata"`
	CurrentVersion int        `bson:"current_version"`
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	versions := db.Collection("syllabus_versions")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "syllabus_id", Value: 1}, {Key: "version", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	versions.Indexes().CreateOne(context.Background(), idx)
	return &MongoStore{
		courses:  db.Collection("syllabi"),
		versions: versions,
	}
}

func (m *MongoStore) Append(ctx context.Context, v *syllabus.Version) error {
	meta := metaFromContent(v.Content)
	if v.Version == 1 {
		_, err := m.courses.InsertOne(ctx, courseDoc{ID: v.SyllabusID, Metadata: meta, CurrentVersion: 0})
		if err != nil && !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create course: %w", err)
		}
	}

	if _, err := m.versions.InsertOne(ctx, v); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return syllabus.ErrConflict
		}
		return fmt.Errorf("insert version: %w", err)
	}

	// advance the current pointer; the filter on the previous number keeps the
	// pointer in step with the ledger
	_, err := m.courses.UpdateOne(ctx,
		bson.M{"_id": v.SyllabusID, "current_version": v.Version - 1},
		bson.M{"$set": bson.M{"current_version": v.Version, "metadata": meta}},
	)
	if err != nil {
		return fmt.Errorf("advance current version: %w", err)
	}
	return nil
}

func (m *MongoStore) Get(ctx context.Context, syllabusID string, version int) (*syllabus.Version, error) {
	var v syllabus.Version
	err := m.versions.FindOne(ctx, bson.M{"syllabus_id": syllabusID, "version": version}).Decode(&v)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, syllabus.ErrNotFound
		}
		return nil, fmt.Errorf("find version: %w", err)
	}
	v.Content = syllabus.Normalize(plainMap(v.Content))
	return &v, nil
}

func (m *MongoStore) Latest(ctx context.Context, syllabusID string) (*syllabus.Version, error) {
	doc, err := m.course(ctx, syllabusID)
	if err != nil {
		return nil, err
	}
	if doc.CurrentVersion < 1 {
		return nil, syllabus.ErrNotFound
	}
	return m.Get(ctx, syllabusID, doc.CurrentVersion)
}

func (m *MongoStore) ListVersions(ctx context.Context, syllabusID string) ([]syllabus.VersionMeta, error) {
	if _, err := m.course(ctx, syllabusID); err != nil {
		return nil, err
	}
	opts := options.Find().
		SetProjection(bson.M{"data": 0}).
		SetSort(bson.D{{Key: "version", Value: 1}})
	cur, err := m.versions.Find(ctx, bson.M{"syllabus_id": syllabusID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find versions: %w", err)
	}
	defer cur.Close(ctx)
	out := []syllabus.VersionMeta{}
	for cur.Next(ctx) {
		var meta syllabus.VersionMeta
		if err := cur.Decode(&meta); err != nil {
			return nil, err
		}
		out = append(out, meta)
	}
	return out, cur.Err()
}

func (m *MongoStore) ListSummaries(ctx context.Context, f Filter) ([]syllabus.Summary, error) {
	query := bson.M{}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"_id": re},
			bson.M{"metadata.name": re},
			bson.M{"metadata.heb_name": re},
		}
	}
	if f.Year != "" {
		query["metadata.year"] = f.Year
	}
	if f.Semester != "" {
		query["metadata.semester"] = f.Semester
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := m.courses.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find syllabi: %w", err)
	}
	defer cur.Close(ctx)
	out := []syllabus.Summary{}
	for cur.Next(ctx) {
		var doc courseDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, syllabus.Summary{
			ID:       doc.ID,
			Name:     doc.Metadata.Name,
			HebName:  doc.Metadata.HebName,
			Year:     doc.Metadata.Year,
			Semester: doc.Metadata.Semester,
		})
	}
	return out, cur.Err()
}

func (m *MongoStore) course(ctx context.Context, syllabusID string) (*courseDoc, error) {
	var doc courseDoc
	if err := m.courses.FindOne(ctx, bson.M{"_id": syllabusID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, syllabus.ErrNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &doc, nil
}

func metaFromContent(c syllabus.Content) courseMeta {
	s := syllabus.SummaryFromContent("", c)
	return courseMeta{Name: s.Name, HebName: s.HebName, Year: s.Year, Semester: s.Semester}
}

// plainMap rewrites a decoded BSON tree into plain map/slice types so the
// normalizer and diff engine see the same representation the JSON layer
// produces.
func plainMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case primitive.M:
		return plainMap(t)
	case map[string]any:
		return plainMap(t)
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Decimal128:
		return t.String()
	default:
		return t
	}
}
