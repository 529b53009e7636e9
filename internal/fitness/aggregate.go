package fitness

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Data types requested from the aggregate endpoint, in response order.
const (
	HeartRateType = "com.google.heart_rate.bpm"
	StepCountType = "com.google.step_count.delta"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// ErrMalformedResponse indicates an aggregate response without the expected buckets.
var ErrMalformedResponse = errors.New("malformed aggregate response")

// DailyAggregate is today's step count and most recent heart rate. Nil means no data.
type DailyAggregate struct {
	Steps            *int64
	LastHeartRateBpm *float64
}

type aggregateRequest struct {
	AggregateBy     []aggregateBy `json:"aggregateBy"`
	BucketByTime    bucketByTime  `json:"bucketByTime"`
	StartTimeMillis int64         `json:"startTimeMillis"`
	EndTimeMillis   int64         `json:"endTimeMillis"`
}

type aggregateBy struct {
	DataTypeName string `json:"dataTypeName"`
}

type bucketByTime struct {
	DurationMillis int64 `json:"durationMillis"`
}

type aggregateResponse struct {
	Bucket []struct {
		Dataset []struct {
			Point []struct {
				Value []struct {
					IntVal *int64   `json:"intVal"`
					FpVal  *float64 `json:"fpVal"`
				} `json:"value"`
			} `json:"point"`
		} `json:"dataset"`
	} `json:"bucket"`
}

// newDailyRequest aggregates heart rate and steps over one bucket from local midnight to now.
func newDailyRequest(now time.Time) aggregateRequest {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return aggregateRequest{
		AggregateBy: []aggregateBy{
			{DataTypeName: HeartRateType},
			{DataTypeName: StepCountType},
		},
		BucketByTime:    bucketByTime{DurationMillis: dayMillis},
		StartTimeMillis: midnight.UnixMilli(),
		EndTimeMillis:   now.UnixMilli(),
	}
}

func (response aggregateResponse) daily() (DailyAggregate, error) {
	if len(response.Bucket) == 0 || len(response.Bucket[0].Dataset) < 2 {
		return DailyAggregate{}, ErrMalformedResponse
	}
	heartRate := response.Bucket[0].Dataset[0].Point
	steps := response.Bucket[0].Dataset[1].Point

	var aggregate DailyAggregate
	if len(steps) > 0 && len(steps[0].Value) > 0 && steps[0].Value[0].IntVal != nil {
		value := *steps[0].Value[0].IntVal
		aggregate.Steps = &value
	}
	if len(heartRate) > 0 {
		last := heartRate[len(heartRate)-1]
		if len(last.Value) > 0 && last.Value[0].FpVal != nil {
			value := *last.Value[0].FpVal
			aggregate.LastHeartRateBpm = &value
		}
	}
	return aggregate, nil
}

// Format renders the aggregate for the fitness panel.
func Format(aggregate DailyAggregate) string {
	var builder strings.Builder
	builder.WriteString("Today's Data:\n")
	if aggregate.Steps != nil {
		fmt.Fprintf(&builder, "Steps: %d\n", *aggregate.Steps)
	} else {
		builder.WriteString("Steps: No data\n")
	}
	if aggregate.LastHeartRateBpm != nil {
		fmt.Fprintf(&builder, "Last Heart Rate: %.0f bpm", math.Round(*aggregate.LastHeartRateBpm))
	} else {
		builder.WriteString("Heart Rate: No data")
	}
	return builder.String()
}
