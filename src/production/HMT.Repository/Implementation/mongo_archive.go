package implementation

import (
	"context"
	"time"

	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSampleArchive mirrors appended readings into a Mongo collection.
// It is a best-effort secondary sink; archive failures never fail a tick.
type MongoSampleArchive struct {
	coll *mongo.Collection
}

func NewMongoSampleArchive(coll *mongo.Collection) *MongoSampleArchive {
	return &MongoSampleArchive{coll: coll}
}

type archivedReading struct {
	Timestamp   time.Time `bson:"ts"`
	Temperature float64   `bson:"temperature"`
	Humidity    float64   `bson:"humidity"`
	AirQuality  int       `bson:"air_quality"`
	EnergyUsage float64   `bson:"energy_usage"`
	WaterUsage  float64   `bson:"water_usage"`
	LightLevel  float64   `bson:"light_level"`
	ArchivedAt  time.Time `bson:"archived_at"`
}

func toArchived(r hmtmodels.Reading) archivedReading {
	return archivedReading{
		Timestamp:   r.Timestamp,
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		AirQuality:  r.AirQuality,
		EnergyUsage: r.EnergyUsage,
		WaterUsage:  r.WaterUsage,
		LightLevel:  r.LightLevel,
		ArchivedAt:  time.Now().UTC(),
	}
}

func (a *MongoSampleArchive) InsertOne(ctx context.Context, r hmtmodels.Reading) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := a.coll.InsertOne(ctx, toArchived(r))
	return err
}

func (a *MongoSampleArchive) InsertMany(ctx context.Context, rs []hmtmodels.Reading) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	docs := make([]interface{}, 0, len(rs))
	for i := range rs {
		docs = append(docs, toArchived(rs[i]))
	}
	_, err := a.coll.InsertMany(ctx, docs)
	return err
}
