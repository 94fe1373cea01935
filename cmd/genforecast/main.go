// Command genforecast generates a messy raw forecast JSON fixture for the
// test suites and for uvcheck. It mixes timestamp encodings and key
// spellings the way real upstream payloads do, seeds in a few invalid
// records, and uses the actual domain package to report what the pipeline
// would make of the output.
//
// Usage:
//
//	go run ./cmd/genforecast -out data/mock/forecast_sg.json [-hours 36] [-seed 42] [-invalid 3]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/uvwatch/uv-forecast-service/internal/domain"
)

var baseTime = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the raw forecast fixture")
	hours := flag.Int("hours", 36, "number of hourly forecast records")
	seed := flag.Int64("seed", 42, "random seed for reproducible fixtures")
	invalid := flag.Int("invalid", 3, "number of unnormalizable records to mix in")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(*seed))

	records := generate(rng, *hours)
	records = append(records, invalidRecords(*invalid)...)
	rng.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})

	payload := map[string]any{"result": records}
	if err := writeJSON(*out, payload); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s (%d records, %d invalid)", *out, len(records), *invalid)

	printStats(records)
	return nil
}

// generate produces hourly records with a plausible diurnal UV curve and
// deliberately inconsistent field encodings.
func generate(rng *rand.Rand, hours int) []domain.RawForecastRecord {
	records := make([]domain.RawForecastRecord, 0, hours)
	for h := 0; h < hours; h++ {
		ts := baseTime.Add(time.Duration(h) * time.Hour)
		rec := domain.RawForecastRecord{}

		// Rotate through the timestamp encodings the upstream has shipped.
		switch h % 4 {
		case 0:
			rec["uv_time"] = ts.Format(time.RFC3339)
		case 1:
			rec["timestamp"] = ts.Unix()
		case 2:
			rec["ts"] = ts.UnixMilli()
		case 3:
			// Zone-less ISO string; implied UTC.
			rec["datetime"] = ts.Format("2006-01-02T15:04:05")
		}

		uv := diurnalUV(rng, ts)
		switch h % 3 {
		case 0:
			rec["uv"] = uv
		case 1:
			rec["uvi"] = uv
		case 2:
			rec["uv_index"] = fmt.Sprintf("%.2f", uv)
		}

		// Sun position rides along on most records.
		if rng.Float64() < 0.8 {
			rec["sun_position"] = map[string]any{
				"azimuth":  float64(ts.Hour()-12) * 15.0,
				"altitude": solarAltitude(ts),
			}
		}

		records = append(records, rec)
	}
	return records
}

// diurnalUV approximates a clear-sky UV curve: zero at night, peaking
// near solar noon, with some jitter.
func diurnalUV(rng *rand.Rand, ts time.Time) float64 {
	alt := solarAltitude(ts)
	if alt <= 0 {
		return 0
	}
	uv := 11.5 * math.Sin(alt*math.Pi/180)
	uv += rng.Float64()*0.6 - 0.3
	if uv < 0 {
		uv = 0
	}
	return math.Round(uv*100) / 100
}

// solarAltitude is a rough equatorial approximation, in degrees.
func solarAltitude(ts time.Time) float64 {
	hourAngle := float64(ts.Hour()-12) * 15.0
	return 90 - math.Abs(hourAngle)
}

// invalidRecords returns records the normalizer must drop: unresolvable
// timestamps, non-numeric UV values, and negatives.
func invalidRecords(n int) []domain.RawForecastRecord {
	pool := []domain.RawForecastRecord{
		{"uv": 4.2},                            // no timestamp at all
		{"uv_time": "tomorrow-ish", "uv": 3.1}, // unparsable timestamp
		{"timestamp": 12345, "uv": 2.0},        // below the unix-seconds floor
		{"uv_time": baseTime.Format(time.RFC3339), "uv": "n/a"},
		{"uv_time": baseTime.Format(time.RFC3339), "uvi": -1.5},
	}
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(records []domain.RawForecastRecord) {
	series := domain.BuildSeries(records)
	points := domain.ChartPoints(domain.Window(series, domain.DefaultWindowSize), time.UTC)
	segments := domain.SegmentPoints(points)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d raw, %d normalized, %d dropped\n",
		len(records), len(series), len(records)-len(series))
	fmt.Printf("Window: %d points\n", len(points))

	catCounts := map[domain.Category]int{}
	for _, pt := range points {
		catCounts[domain.CategoryFor(pt.UV)]++
	}
	fmt.Printf("By category: low=%d, moderate=%d, high=%d, very_high=%d, extreme=%d\n",
		catCounts[domain.CategoryLow], catCounts[domain.CategoryModerate],
		catCounts[domain.CategoryHigh], catCounts[domain.CategoryVeryHigh],
		catCounts[domain.CategoryExtreme])

	fmt.Printf("Segments: %d\n", len(segments))
	for i, seg := range segments {
		if len(seg.Points) == 0 {
			continue
		}
		fmt.Printf("  [%d] %-9s %s .. %s (%d points)\n", i, seg.Category,
			seg.Points[0].Label, seg.Points[len(seg.Points)-1].Label, len(seg.Points))
	}

	if len(series) > 0 {
		p := series[0]
		fmt.Printf("\nFirst normalized point:\n")
		fmt.Printf("  Time: %s\n", p.CanonicalTime())
		fmt.Printf("  UV: %g (%s)\n", p.UVIndex, domain.CategoryFor(p.UVIndex))
		if p.SunPosition != nil {
			fmt.Printf("  Sun: az=%g alt=%g\n", p.SunPosition.Azimuth, p.SunPosition.Altitude)
		}
	}
}
